// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package votable reads and writes the VOTable XML interchange format used
// by Virtual Observatory services. It covers the subset the pipeline needs:
// TABLEDATA-serialized tables, INFO status blocks, and the PARAM/GROUP
// metadata that Datalink service descriptors are built from.
package votable

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Document is a parsed VOTABLE element.
type Document struct {
	XMLName   xml.Name   `xml:"VOTABLE"`
	Version   string     `xml:"version,attr,omitempty"`
	Xmlns     string     `xml:"xmlns,attr,omitempty"`
	Infos     []Info     `xml:"INFO"`
	Resources []Resource `xml:"RESOURCE"`
}

// Resource is a RESOURCE element. Resources nest: TAP services wrap the
// result table in one resource and attach service descriptors as siblings
// or children.
type Resource struct {
	Name      string     `xml:"name,attr,omitempty"`
	Type      string     `xml:"type,attr,omitempty"`
	Utype     string     `xml:"utype,attr,omitempty"`
	Infos     []Info     `xml:"INFO"`
	Params    []Param    `xml:"PARAM"`
	Groups    []Group    `xml:"GROUP"`
	Tables    []XMLTable `xml:"TABLE"`
	Resources []Resource `xml:"RESOURCE"`
}

// Info is an INFO element; services report query status through it.
type Info struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

// Param is a PARAM element: a named constant with an optional ref to a FIELD.
type Param struct {
	ID       string `xml:"ID,attr,omitempty"`
	Name     string `xml:"name,attr"`
	Datatype string `xml:"datatype,attr,omitempty"`
	ArrSize  string `xml:"arraysize,attr,omitempty"`
	Value    string `xml:"value,attr"`
	Ref      string `xml:"ref,attr,omitempty"`
	UCD      string `xml:"ucd,attr,omitempty"`
	Utype    string `xml:"utype,attr,omitempty"`
}

// Group is a GROUP element; Datalink descriptors use a GROUP named
// "inputParams" to bind query parameters to result-table columns.
type Group struct {
	Name   string  `xml:"name,attr,omitempty"`
	Utype  string  `xml:"utype,attr,omitempty"`
	Params []Param `xml:"PARAM"`
}

// Field is a FIELD element: one column definition.
type Field struct {
	ID       string `xml:"ID,attr,omitempty"`
	Name     string `xml:"name,attr"`
	Datatype string `xml:"datatype,attr,omitempty"`
	ArrSize  string `xml:"arraysize,attr,omitempty"`
	Unit     string `xml:"unit,attr,omitempty"`
	UCD      string `xml:"ucd,attr,omitempty"`
	Utype    string `xml:"utype,attr,omitempty"`
}

// XMLTable is a TABLE element as it appears on the wire.
type XMLTable struct {
	Name   string  `xml:"name,attr,omitempty"`
	Fields []Field `xml:"FIELD"`
	Data   *Data   `xml:"DATA"`
}

// Data wraps the TABLEDATA serialization. BINARY/FITS streams are not
// supported; services are asked for TABLEDATA via FORMAT=votable.
type Data struct {
	TableData *TableData `xml:"TABLEDATA"`
}

// TableData holds the rows.
type TableData struct {
	Rows []XMLRow `xml:"TR"`
}

// XMLRow is one TR element.
type XMLRow struct {
	Cells []string `xml:"TD"`
}

// StatusError is a service-reported failure carried in an INFO element
// (QUERY_STATUS="ERROR").
type StatusError struct {
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "service reported QUERY_STATUS=ERROR"
	}
	return "service error: " + e.Message
}

// Parse decodes a VOTable document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing VOTable: %w", err)
	}
	return &doc, nil
}

// StatusError returns a *StatusError if any INFO in the document reports
// QUERY_STATUS=ERROR, or nil otherwise. The error message is the INFO's
// character content, falling back to its value attribute.
func (d *Document) StatusError() error {
	check := func(infos []Info) error {
		for _, info := range infos {
			if !strings.EqualFold(info.Name, "QUERY_STATUS") {
				continue
			}
			if strings.EqualFold(info.Value, "ERROR") {
				msg := strings.TrimSpace(info.Text)
				if msg == "" {
					msg = info.Value
				}
				return &StatusError{Message: msg}
			}
		}
		return nil
	}

	if err := check(d.Infos); err != nil {
		return err
	}
	for _, res := range d.Resources {
		if err := check(res.Infos); err != nil {
			return err
		}
	}
	return nil
}

// walkResources visits every resource in the document, depth first.
func (d *Document) walkResources(visit func(*Resource) bool) {
	var walk func(rs []Resource) bool
	walk = func(rs []Resource) bool {
		for i := range rs {
			if visit(&rs[i]) {
				return true
			}
			if walk(rs[i].Resources) {
				return true
			}
		}
		return false
	}
	walk(d.Resources)
}
