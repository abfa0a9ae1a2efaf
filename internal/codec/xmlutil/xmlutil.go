// Package xmlutil wraps the etree primitives both codecs share: building
// prefixed elements on the write side and prefix-agnostic lookups on the read
// side. Readers match on local element names only, because documents in the
// wild bind the standard namespaces to arbitrary prefixes.
package xmlutil

import (
	"strings"

	"github.com/beevik/etree"
)

// El creates a child element with the given (possibly prefixed) tag
func El(parent *etree.Element, tag string) *etree.Element {
	return parent.CreateElement(tag)
}

// Text creates a child element holding text. Empty text still creates the
// element; callers that must suppress empty wrappers test the value first.
func Text(parent *etree.Element, tag, text string) *etree.Element {
	e := parent.CreateElement(tag)
	e.SetText(text)
	return e
}

// TextIf creates a child element only when the text is non-empty
func TextIf(parent *etree.Element, tag, text string) *etree.Element {
	if text == "" {
		return nil
	}
	return Text(parent, tag, text)
}

// Attr sets an attribute and returns the element for chaining
func Attr(e *etree.Element, key, value string) *etree.Element {
	e.CreateAttr(key, value)
	return e
}

// Child returns the first direct child with the given local name, ignoring
// the namespace prefix, or nil.
func Child(e *etree.Element, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if c.Tag == local {
			return c
		}
	}
	return nil
}

// Children returns all direct children with the given local name
func Children(e *etree.Element, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == local {
			out = append(out, c)
		}
	}
	return out
}

// Find descends through a chain of local names, returning nil as soon as a
// step is absent.
func Find(e *etree.Element, path ...string) *etree.Element {
	for _, name := range path {
		e = Child(e, name)
		if e == nil {
			return nil
		}
	}
	return e
}

// TextOf returns the trimmed text at a path, or "" when any step is absent
func TextOf(e *etree.Element, path ...string) string {
	found := Find(e, path...)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

// AttrOf returns an attribute value at a path, or ""
func AttrOf(e *etree.Element, attr string, path ...string) string {
	found := Find(e, path...)
	if found == nil {
		return ""
	}
	a := found.SelectAttr(attr)
	if a == nil {
		return ""
	}
	return a.Value
}

// PathOf renders an element's ancestry as a prefixed path for error messages
func PathOf(e *etree.Element) string {
	var parts []string
	for e != nil {
		parts = append([]string{e.FullTag()}, parts...)
		e = e.Parent()
	}
	return strings.Join(parts, "/")
}

// RootNamespace resolves the namespace URI bound to the root element's own
// prefix, consulting the root's xmlns declarations.
func RootNamespace(root *etree.Element) string {
	if root == nil {
		return ""
	}
	if root.Space == "" {
		if a := root.SelectAttr("xmlns"); a != nil {
			return a.Value
		}
		return ""
	}
	if a := root.SelectAttr("xmlns:" + root.Space); a != nil {
		return a.Value
	}
	return ""
}

// DeclaredNamespaces returns every namespace URI declared on the root element
func DeclaredNamespaces(root *etree.Element) []string {
	if root == nil {
		return nil
	}
	var out []string
	for _, a := range root.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			out = append(out, a.Value)
		}
	}
	return out
}
