// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package votable

import (
	"fmt"
	"strings"

	"github.com/pdiddy/vo-explorer/pkg/types"
)

// datalinkStandardID identifies a Datalink links-1.x service descriptor.
const datalinkStandardID = "std/datalink"

// FindResourceLocator extracts the Datalink service descriptor embedded in
// the document: the discovery base URL, the query parameter name, and the
// result-table column that supplies the parameter's value. Descriptors are
// located by role (utype "adhoc:service" or a standardID PARAM naming the
// Datalink standard), never by resource position.
//
// tbl resolves the descriptor's column reference: the input PARAM's ref
// attribute names a FIELD by ID, and the returned locator carries that
// field's name.
func FindResourceLocator(d *Document, tbl *Table) (types.ResourceLocator, error) {
	var loc types.ResourceLocator
	var found bool

	d.walkResources(func(r *Resource) bool {
		if !isServiceDescriptor(r) {
			return false
		}
		accessURL := paramValue(r.Params, "accessURL")
		if accessURL == "" {
			return false
		}
		name, ref := inputParam(r.Groups)
		if name == "" {
			return false
		}
		loc = types.ResourceLocator{
			AccessURL: accessURL,
			IDParam:   name,
			IDColumn:  resolveColumn(tbl, ref),
		}
		found = true
		return true
	})

	if !found {
		return types.ResourceLocator{}, fmt.Errorf("no Datalink service descriptor in response")
	}
	return loc, nil
}

// isServiceDescriptor reports whether the resource is a Datalink service
// descriptor, by utype or by its standardID parameter.
func isServiceDescriptor(r *Resource) bool {
	if strings.EqualFold(r.Utype, "adhoc:service") {
		return true
	}
	std := paramValue(r.Params, "standardID")
	return strings.Contains(strings.ToLower(std), datalinkStandardID)
}

// paramValue returns the value of the named PARAM, or "".
func paramValue(params []Param, name string) string {
	for _, p := range params {
		if strings.EqualFold(p.Name, name) {
			return p.Value
		}
	}
	return ""
}

// inputParam returns the name and field ref of the descriptor's ID input
// parameter from the inputParams GROUP.
func inputParam(groups []Group) (name, ref string) {
	for _, g := range groups {
		if !strings.EqualFold(g.Name, "inputParams") {
			continue
		}
		for _, p := range g.Params {
			if strings.EqualFold(p.Name, "ID") {
				return p.Name, p.Ref
			}
		}
	}
	return "", ""
}

// resolveColumn maps a FIELD ID reference to the field's name. When the ref
// does not match any field ID the ref itself is returned; some services set
// ref directly to the column name.
func resolveColumn(tbl *Table, ref string) string {
	if tbl == nil || ref == "" {
		return ref
	}
	if i, ok := tbl.byID[ref]; ok {
		return tbl.fields[i].Name
	}
	return ref
}
