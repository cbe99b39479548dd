// Package views composes the theme's pages as trees of view nodes and
// serializes those trees to HTML documents as templ components.
//
// Composition is pure: a Composer reads a content.Website snapshot and a Style
// and returns fresh trees. Nodes are plain values; constructors copy their
// children so a tree never aliases caller-owned slices.
package views

// Kind identifies a view node variant.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindLink
	KindStack
	KindList
	KindBadge
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLink:
		return "link"
	case KindStack:
		return "stack"
	case KindList:
		return "list"
	case KindBadge:
		return "badge"
	case KindFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Axis is the layout direction of a Stack.
type Axis uint8

const (
	Vertical Axis = iota
	Horizontal
)

// Role is the semantic purpose of a node. The serializer maps roles to
// classes styled from Style.
type Role uint8

const (
	RoleNone Role = iota
	RolePage
	RoleHeader
	RoleContent
	RoleFooter
	RoleHeadline
	RoleCaption
	RoleCard
	RoleTagRow
	RoleUnderline
	RoleItemList
)

var roleClasses = map[Role]string{
	RolePage:      "page",
	RoleHeader:    "site-header",
	RoleContent:   "content",
	RoleFooter:    "site-footer",
	RoleHeadline:  "headline",
	RoleCaption:   "caption",
	RoleCard:      "card",
	RoleTagRow:    "tag-row",
	RoleUnderline: "underline",
	RoleItemList:  "item-list",
}

// Class returns the CSS class for the role, or "" for RoleNone.
func (r Role) Class() string { return roleClasses[r] }

// Node is one element of a view tree.
//
// Text is the label for Text and Badge nodes and the raw markup for Fragment
// nodes. Href is set on Link and Badge nodes. Axis is meaningful for Stack.
type Node struct {
	Kind     Kind
	Role     Role
	Axis     Axis
	Text     string
	Href     string
	Children []Node
}

// Text returns a text node.
func Text(s string, role Role) Node {
	return Node{Kind: KindText, Role: role, Text: s}
}

// Link returns a link to href wrapping children.
func Link(href string, role Role, children ...Node) Node {
	return Node{Kind: KindLink, Role: role, Href: href, Children: copyNodes(children)}
}

// Stack lays children out along axis.
func Stack(axis Axis, role Role, children ...Node) Node {
	return Node{Kind: KindStack, Role: role, Axis: axis, Children: copyNodes(children)}
}

// List returns an ordered list of entries.
func List(role Role, children ...Node) Node {
	return Node{Kind: KindList, Role: role, Children: copyNodes(children)}
}

// Badge returns a tag pill linking to href.
func Badge(label, href string) Node {
	return Node{Kind: KindBadge, Text: label, Href: href}
}

// Fragment embeds pre-rendered markup.
func Fragment(html string) Node {
	return Node{Kind: KindFragment, Text: html}
}

// Walk visits n and its descendants depth first, parents before children.
// Returning false from fn skips the node's children.
func (n Node) Walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns every node in the tree matching pred, in Walk order.
func (n Node) FindAll(pred func(Node) bool) []Node {
	var out []Node
	n.Walk(func(c Node) bool {
		if pred(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// First returns the first node matching pred.
func (n Node) First(pred func(Node) bool) (Node, bool) {
	var found Node
	ok := false
	n.Walk(func(c Node) bool {
		if ok {
			return false
		}
		if pred(c) {
			found, ok = c, true
			return false
		}
		return true
	})
	return found, ok
}

// OfKind matches nodes of kind k.
func OfKind(k Kind) func(Node) bool {
	return func(n Node) bool { return n.Kind == k }
}

// WithRole matches nodes with role r.
func WithRole(r Role) func(Node) bool {
	return func(n Node) bool { return n.Role == r }
}

func copyNodes(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}
