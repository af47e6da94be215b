package metadata

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// ObjectProperties holds the property dictionaries extracted from a
// FOXML export: one for the object itself, one per datastream. Used to
// verify an ingested object against what we sent.
type ObjectProperties struct {
	PID string

	// Properties maps object-level property names to values. Property
	// names are the unqualified part of the FOXML property URI, e.g.
	// "state", "label", "ownerId".
	Properties map[string]string

	// Datastreams maps DSID to that datastream's attributes, taken
	// from the datastream element and its most recent version:
	// "state", "controlGroup", "mimeType", "label", "size".
	Datastreams map[string]map[string]string
}

// FoxmlProperties parses a serialized FOXML export and returns its
// object and datastream property dictionaries.
func FoxmlProperties(r io.Reader) (*ObjectProperties, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("cannot parse FOXML: %v", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "digitalObject" {
		return nil, fmt.Errorf("not a FOXML document: missing digitalObject root")
	}
	props := &ObjectProperties{
		PID:         root.SelectAttrValue("PID", ""),
		Properties:  make(map[string]string),
		Datastreams: make(map[string]map[string]string),
	}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "objectProperties":
			readObjectProperties(child, props)
		case "datastream":
			readDatastream(child, props)
		}
	}
	return props, nil
}

func readObjectProperties(elem *etree.Element, props *ObjectProperties) {
	for _, property := range elem.ChildElements() {
		if property.Tag != "property" {
			continue
		}
		name := property.SelectAttrValue("NAME", "")
		value := property.SelectAttrValue("VALUE", "")
		if name == "" {
			continue
		}
		// Property names are URIs like
		// info:fedora/fedora-system:def/model#state; keep the fragment.
		if i := strings.LastIndex(name, "#"); i >= 0 {
			name = name[i+1:]
		}
		props.Properties[name] = value
	}
}

func readDatastream(elem *etree.Element, props *ObjectProperties) {
	dsID := elem.SelectAttrValue("ID", "")
	if dsID == "" {
		return
	}
	attrs := map[string]string{
		"state":        elem.SelectAttrValue("STATE", ""),
		"controlGroup": elem.SelectAttrValue("CONTROL_GROUP", ""),
	}
	// Versions appear oldest first; the last one is current.
	var current *etree.Element
	for _, version := range elem.ChildElements() {
		if version.Tag == "datastreamVersion" {
			current = version
		}
	}
	if current != nil {
		attrs["mimeType"] = current.SelectAttrValue("MIMETYPE", "")
		attrs["label"] = current.SelectAttrValue("LABEL", "")
		attrs["size"] = current.SelectAttrValue("SIZE", "")
	}
	props.Datastreams[dsID] = attrs
}
