package restserver

import (
	"github.com/chrissnell/functionalflows/pkg/config"
	"github.com/chrissnell/functionalflows/pkg/flows"
)

// transformComponent describes a built component together with the raw
// parameters it was configured from.
func transformComponent(c *flows.Component, cd config.ComponentData) ComponentResponse {
	resp := ComponentResponse{
		Name:            c.Name(),
		Characteristics: make([]CharacteristicDoc, 0, len(c.Characteristics())),
		SuccessPattern:  c.ScoringCriteria().IsSuccessPattern(),
		Columns:         make([]string, 0, len(c.Characteristics())+1),
	}

	for i, nc := range c.Characteristics() {
		doc := CharacteristicDoc{Name: nc.Name}
		if i < len(cd.Parameters) {
			doc.Parameters = cd.Parameters[i]
		}
		resp.Characteristics = append(resp.Characteristics, doc)
		resp.Columns = append(resp.Columns, c.Name()+"_"+nc.Name)
	}
	resp.Columns = append(resp.Columns, c.Name()+"_"+c.ScoringCriteria().Name())

	for _, e := range c.ScoringCriteria().Pattern() {
		resp.ScoringPattern = append(resp.ScoringPattern, e.String())
	}
	return resp
}
