package metadata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrValueNotFound means the XML parsed cleanly but no element matched
// the requested path. Callers treat this differently from a parse
// error: a missing title is a skip, a broken file is a warning.
var ErrValueNotFound = errors.New("no element matches path")

// ModsValue reads the MODS file at xmlPath and returns the text of the
// first element matching elemPath. The path is a slash-separated list
// of local element names relative to the document root, e.g.
// "titleInfo/title". Namespace prefixes in the document are ignored,
// so the same path works for mods:titleInfo and plain titleInfo.
func ModsValue(xmlPath, elemPath string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(xmlPath); err != nil {
		return "", fmt.Errorf("cannot parse %s: %v", xmlPath, err)
	}
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("%s has no root element", xmlPath)
	}
	elem := findByLocalPath(root, strings.Split(elemPath, "/"))
	if elem == nil {
		return "", ErrValueNotFound
	}
	value := strings.TrimSpace(elem.Text())
	if value == "" {
		return "", ErrValueNotFound
	}
	return value, nil
}

// findByLocalPath descends from elem through children whose local
// names match the steps, returning the first full match in document
// order.
func findByLocalPath(elem *etree.Element, steps []string) *etree.Element {
	if len(steps) == 0 {
		return elem
	}
	for _, child := range elem.ChildElements() {
		if child.Tag == steps[0] {
			if match := findByLocalPath(child, steps[1:]); match != nil {
				return match
			}
		}
	}
	return nil
}
