package yacc

type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenLiteral
	TokenNumber
	TokenBar
	TokenDot
	TokenColon
	TokenSemiColon
	TokenPercent
	TokenParam
	TokenOption
	TokenRulesTag
	TokenStartType
	TokenEndType
	TokenTypeValue
	TokenDefinition
	TokenStartComment
	TokenEndComment
	TokenComment
	TokenStartAction
	TokenEndAction
	TokenAction
	TokenWhitespace
	TokenUnknown
	TokenEOS
)

var tokenKindNames = map[TokenKind]string{
	TokenWord:         "Word",
	TokenLiteral:      "Literal",
	TokenNumber:       "Number",
	TokenBar:          "Bar",
	TokenDot:          "Dot",
	TokenColon:        "Colon",
	TokenSemiColon:    "SemiColon",
	TokenPercent:      "Percent",
	TokenParam:        "Param",
	TokenOption:       "Option",
	TokenRulesTag:     "RulesTag",
	TokenStartType:    "StartType",
	TokenEndType:      "EndType",
	TokenTypeValue:    "TypeValue",
	TokenDefinition:   "Definition",
	TokenStartComment: "StartComment",
	TokenEndComment:   "EndComment",
	TokenComment:      "Comment",
	TokenStartAction:  "StartAction",
	TokenEndAction:    "EndAction",
	TokenAction:       "Action",
	TokenWhitespace:   "Whitespace",
	TokenUnknown:      "Unknown",
	TokenEOS:          "EOS",
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

// isTrivia reports tokens the parser skips entirely.
func (k TokenKind) isTrivia() bool {
	switch k {
	case TokenWhitespace, TokenStartComment, TokenEndComment, TokenComment:
		return true
	}
	return false
}

type Token struct {
	Kind   TokenKind `json:"kind"`
	Offset int       `json:"offset"`
	Length int       `json:"length"`
	End    int       `json:"end"`
	Text   string    `json:"text"`
	Error  string    `json:"error,omitempty"`
}

// State is the lexical mode of a Scanner.
type State int

const (
	StateWithinContent State = iota
	StateWithinComment
	StateWithinCode
	StateWithinAction
	StateWithinTypeValue
)

var stateNames = map[State]string{
	StateWithinContent:   "WithinContent",
	StateWithinComment:   "WithinComment",
	StateWithinCode:      "WithinCode",
	StateWithinAction:    "WithinAction",
	StateWithinTypeValue: "WithinTypeValue",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Invalid"
}
