package yacc

type NodeKind int

const (
	NodeToken NodeKind = iota
	NodeType
	NodePrecedence
	NodeRule
	NodeDefine
	NodeEmbedded
)

var nodeKindNames = map[NodeKind]string{
	NodeToken:      "Token",
	NodeType:       "Type",
	NodePrecedence: "Precedence",
	NodeRule:       "Rule",
	NodeDefine:     "Define",
	NodeEmbedded:   "Embedded",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Invalid"
}

func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node spans a declaration, a rule or a block of embedded code. TypeOffset
// and TypeEnd locate the <tag> of a declaration and are -1 when there is
// none.
type Node struct {
	Kind       NodeKind `json:"kind"`
	Offset     int      `json:"offset"`
	Length     int      `json:"length"`
	End        int      `json:"end"`
	Name       string   `json:"name,omitempty"`
	TypeOffset int      `json:"typeOffset"`
	TypeEnd    int      `json:"typeEnd"`
	Actions    []string `json:"actions,omitempty"`
}

func newNode(kind NodeKind, offset int) *Node {
	return &Node{Kind: kind, Offset: offset, Length: -1, End: -1, TypeOffset: -1, TypeEnd: -1}
}

func (n *Node) close(end int) {
	if end < n.Offset {
		end = n.Offset
	}
	n.End = end
	n.Length = end - n.Offset
}
