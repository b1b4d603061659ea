package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chameleon-db/komodo/pkg/engine"
)

// opDoc is the YAML surface for one logical write operation.
type opDoc struct {
	Operation string `yaml:"operation"`
	Model     string `yaml:"model"`

	Args map[string]interface{}   `yaml:"args"`
	Rows []map[string]interface{} `yaml:"rows"`

	SkipDuplicates bool      `yaml:"skip_duplicates"`
	Projection     *[]string `yaml:"projection"`
	Limit          *int64    `yaml:"limit"`

	Filter *filterDoc `yaml:"filter"`

	Create            map[string]interface{} `yaml:"create"`
	Update            map[string]interface{} `yaml:"update"`
	UniqueConstraints []string               `yaml:"unique_constraints"`

	Raw *rawDoc `yaml:"raw"`

	Relation *relationDoc   `yaml:"relation"`
	Parent   *[]handleEntry `yaml:"parent"`
	Child    []handleEntry  `yaml:"child"`
	Children []interface{}  `yaml:"children"`
}

type filterDoc struct {
	Conditions []conditionDoc `yaml:"conditions"`
	Selectors  []interface{}  `yaml:"selectors"`
}

type conditionDoc struct {
	Field    string      `yaml:"field"`
	Operator string      `yaml:"operator"`
	Value    interface{} `yaml:"value"`
}

type rawDoc struct {
	Kind       string        `yaml:"kind"`
	Query      string        `yaml:"query"`
	Parameters []interface{} `yaml:"parameters"`
}

type relationDoc struct {
	Name         string `yaml:"name"`
	JoinTable    string `yaml:"join_table"`
	ParentColumn string `yaml:"parent_column"`
	ChildColumn  string `yaml:"child_column"`
}

type handleEntry struct {
	Step   string        `yaml:"step"`
	Values []interface{} `yaml:"values"`
}

// loadWriteQuery reads a YAML operation document from disk.
func loadWriteQuery(path string) (engine.WriteQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read operation file: %w", err)
	}
	return decodeWriteQuery(data)
}

// decodeWriteQuery turns a YAML operation document into a logical write query.
func decodeWriteQuery(data []byte) (engine.WriteQuery, error) {
	var doc opDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse operation document: %w", err)
	}
	if doc.Operation == "" {
		return nil, fmt.Errorf("operation document is missing 'operation'")
	}

	model := engine.Model{Name: doc.Model}

	switch doc.Operation {
	case "create":
		return engine.CreateRecord{
			Model:      model,
			Args:       doc.Args,
			Projection: doc.requiredProjection(),
		}, nil

	case "create_many":
		return engine.CreateManyRecords{
			Model:          model,
			Rows:           doc.Rows,
			SkipDuplicates: doc.SkipDuplicates,
			Projection:     doc.optionalProjection(),
		}, nil

	case "update_many":
		return engine.UpdateManyRecords{
			Model:      model,
			Filter:     doc.recordFilter(),
			Args:       doc.Args,
			Projection: doc.optionalProjection(),
			Limit:      doc.Limit,
		}, nil

	case "update":
		return engine.UpdateRecordWithSelection{
			Model:      model,
			Filter:     doc.recordFilter(),
			Args:       doc.Args,
			Projection: doc.requiredProjection(),
		}, nil

	case "upsert":
		return engine.Upsert{
			Model:             model,
			Filter:            doc.recordFilter(),
			CreateArgs:        doc.Create,
			UpdateArgs:        doc.Update,
			Projection:        doc.requiredProjection(),
			UniqueConstraints: doc.UniqueConstraints,
		}, nil

	case "query_raw":
		inputs, kind, err := doc.rawInputs()
		if err != nil {
			return nil, err
		}
		return engine.QueryRaw{Model: doc.optionalModel(), Inputs: inputs, QueryType: kind}, nil

	case "execute_raw":
		inputs, kind, err := doc.rawInputs()
		if err != nil {
			return nil, err
		}
		return engine.ExecuteRaw{Model: doc.optionalModel(), Inputs: inputs, QueryType: kind}, nil

	case "delete":
		return engine.DeleteRecord{
			Model:      model,
			Filter:     doc.recordFilter(),
			Projection: doc.optionalProjection(),
		}, nil

	case "delete_many":
		return engine.DeleteManyRecords{
			Model:  model,
			Filter: doc.recordFilter(),
			Limit:  doc.Limit,
		}, nil

	case "connect":
		relation, err := doc.relationField()
		if err != nil {
			return nil, err
		}
		var parent engine.Handle
		if doc.Parent != nil {
			parent = toHandle(*doc.Parent)
		}
		return engine.ConnectRecords{
			RelationField: relation,
			Parent:        parent,
			Child:         toHandle(doc.Child),
		}, nil

	case "disconnect":
		relation, err := doc.relationField()
		if err != nil {
			return nil, err
		}
		var parent *engine.Handle
		if doc.Parent != nil {
			h := toHandle(*doc.Parent)
			parent = &h
		}
		return engine.DisconnectRecords{
			RelationField: relation,
			Parent:        parent,
			Children:      doc.Children,
		}, nil

	default:
		// Keep decoding total; lowering reports the unsupported kind.
		return engine.UnsupportedWriteQuery{Name: doc.Operation}, nil
	}
}

func (d *opDoc) requiredProjection() engine.Projection {
	if d.Projection == nil {
		return engine.Projection{}
	}
	return engine.Projection{Fields: *d.Projection}
}

func (d *opDoc) optionalProjection() *engine.Projection {
	if d.Projection == nil {
		return nil
	}
	return &engine.Projection{Fields: *d.Projection}
}

func (d *opDoc) optionalModel() *engine.Model {
	if d.Model == "" {
		return nil
	}
	return &engine.Model{Name: d.Model}
}

func (d *opDoc) recordFilter() engine.RecordFilter {
	if d.Filter == nil {
		return engine.RecordFilter{}
	}
	out := engine.RecordFilter{Selectors: d.Filter.Selectors}
	for _, c := range d.Filter.Conditions {
		out.Conditions = append(out.Conditions, engine.Condition{
			Field:    c.Field,
			Operator: c.Operator,
			Value:    c.Value,
		})
	}
	return out
}

func (d *opDoc) rawInputs() (map[string]interface{}, engine.RawKind, error) {
	if d.Raw == nil {
		return nil, "", fmt.Errorf("%s operation requires a 'raw' section", d.Operation)
	}
	kind := engine.RawKind(d.Raw.Kind)
	if kind == "" {
		kind = engine.RawSQL
	}
	inputs := map[string]interface{}{"query": d.Raw.Query}
	if len(d.Raw.Parameters) > 0 {
		inputs["parameters"] = d.Raw.Parameters
	}
	return inputs, kind, nil
}

func (d *opDoc) relationField() (engine.RelationField, error) {
	if d.Relation == nil {
		return engine.RelationField{}, fmt.Errorf("%s operation requires a 'relation' section", d.Operation)
	}
	return engine.RelationField{
		Name:         d.Relation.Name,
		JoinTable:    d.Relation.JoinTable,
		ParentColumn: d.Relation.ParentColumn,
		ChildColumn:  d.Relation.ChildColumn,
	}, nil
}

func toHandle(entries []handleEntry) engine.Handle {
	var h engine.Handle
	for _, e := range entries {
		h.Entries = append(h.Entries, engine.HandleEntry{StepKey: e.Step, Values: e.Values})
	}
	return h
}
