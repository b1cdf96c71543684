package lex

type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenLiteral
	TokenBar
	TokenPercent
	TokenOption
	TokenRulesTag
	TokenStartComment
	TokenEndComment
	TokenComment
	TokenStartAction
	TokenEndAction
	TokenAction
	TokenStartCode
	TokenEndCode
	TokenCode
	TokenStartPredefined
	TokenEndPredefined
	TokenPredefined
	TokenStartStates
	TokenEndStates
	TokenStates
	TokenCharClass
	TokenEscape
	TokenDivider
	TokenEOL
	TokenWhitespace
	TokenInvalid
	TokenUnknown
	TokenEOS
)

var tokenKindNames = map[TokenKind]string{
	TokenWord:            "Word",
	TokenLiteral:         "Literal",
	TokenBar:             "Bar",
	TokenPercent:         "Percent",
	TokenOption:          "Option",
	TokenRulesTag:        "RulesTag",
	TokenStartComment:    "StartComment",
	TokenEndComment:      "EndComment",
	TokenComment:         "Comment",
	TokenStartAction:     "StartAction",
	TokenEndAction:       "EndAction",
	TokenAction:          "Action",
	TokenStartCode:       "StartCode",
	TokenEndCode:         "EndCode",
	TokenCode:            "Code",
	TokenStartPredefined: "StartPredefined",
	TokenEndPredefined:   "EndPredefined",
	TokenPredefined:      "Predefined",
	TokenStartStates:     "StartStates",
	TokenEndStates:       "EndStates",
	TokenStates:          "States",
	TokenCharClass:       "CharClass",
	TokenEscape:          "Escape",
	TokenDivider:         "Divider",
	TokenEOL:             "EOL",
	TokenWhitespace:      "Whitespace",
	TokenInvalid:         "Invalid",
	TokenUnknown:         "Unknown",
	TokenEOS:             "EOS",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Invalid"
}

func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Token struct {
	Kind   TokenKind `json:"kind"`
	Offset int       `json:"offset"`
	Length int       `json:"length"`
	End    int       `json:"end"`
	Text   string    `json:"text"`
	Error  string    `json:"error,omitempty"`
}

type State int

const (
	StateWithinContent State = iota
	StateWithinComment
	StateWithinCode
	StateWithinAction
	StateWithinPredefined
	StateWithinStates
)

var stateNames = map[State]string{
	StateWithinContent:    "WithinContent",
	StateWithinComment:    "WithinComment",
	StateWithinCode:       "WithinCode",
	StateWithinAction:     "WithinAction",
	StateWithinPredefined: "WithinPredefined",
	StateWithinStates:     "WithinStates",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Invalid"
}
