package memdom

import "strings"

// Attr is a single attribute for El.
type Attr struct {
	Name  string
	Value string
}

// Listener is an event handler for El.
type Listener struct {
	Event   string
	Handler func()
}

// El creates an element. Arguments can be nil, Attr, []Attr, Listener,
// *Node, []*Node or string (a text child).
func El(tag string, args ...any) *Node {
	n := NewElement(tag)
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if v.Name != "" {
				n.SetAttr(v.Name, v.Value)
			}
		case []Attr:
			for _, a := range v {
				if a.Name != "" {
					n.SetAttr(a.Name, a.Value)
				}
			}
		case Listener:
			if v.Handler != nil {
				n.AddEventListener(v.Event, v.Handler)
			}
		case *Node:
			n.Append(v)
		case []*Node:
			n.Append(v...)
		case string:
			n.AppendText(v)
		}
	}
	return n
}

// Text creates a text node.
func Text(content string) *Node {
	return NewText(content)
}

// A creates an arbitrary attribute.
func A(name, value string) Attr { return Attr{Name: name, Value: value} }

// ID sets the id attribute.
func ID(id string) Attr { return A("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return A("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return A("data-"+key, value) }

// Ref sets the structural reference attribute (data-ref).
func Ref(ref string) Attr { return A("data-ref", ref) }

// QID sets the identifier attribute (q-id).
func QID(id string) Attr { return A("q-id", id) }

// Key sets the animation key attribute.
func Key(key string) Attr { return A("key", key) }

// StyleAttr sets the inline style.
func StyleAttr(style string) Attr { return A("style", style) }

// On registers an event handler.
func On(event string, handler func()) Listener { return Listener{Event: event, Handler: handler} }
