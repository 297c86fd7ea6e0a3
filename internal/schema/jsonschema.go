package schema

const draft2020 = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema describes the document form of a stored record of d: the
// localized, list, plain, file and code maps keyed by field name.
func (d Definition) JSONSchema() map[string]any {
	texts, textRequired := d.groupSchema(KindText, localizedTextSchema)
	lists, listRequired := d.groupSchema(KindList, localizedListSchema)
	plain, plainRequired := d.groupSchema(KindPlain, func(Field) map[string]any {
		return map[string]any{"type": []any{"string", "number", "integer", "boolean", "null"}}
	})
	dates, dateRequired := d.groupSchema(KindDate, func(Field) map[string]any {
		return map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
	})
	files, fileRequired := d.groupSchema(KindFile, func(Field) map[string]any {
		return map[string]any{"type": "string"}
	})
	codes, codeRequired := d.groupSchema(KindCode, codeSchema)

	for name, prop := range dates {
		plain[name] = prop
	}
	plainRequired = append(plainRequired, dateRequired...)

	properties := map[string]any{
		"entity_type": map[string]any{"const": d.Name},
		"key":         map[string]any{"type": "string"},
		"is_active":   map[string]any{"type": "boolean"},
		"order":       map[string]any{"type": "integer"},
		"texts":       objectSchema(texts, textRequired),
		"lists":       objectSchema(lists, listRequired),
		"fields":      objectSchema(plain, plainRequired),
		"files":       objectSchema(files, fileRequired),
		"codes":       objectSchema(codes, codeRequired),
	}
	if d.HasDate() {
		properties["date"] = map[string]any{"type": []any{"string", "null"}}
	}

	return map[string]any{
		"$schema":    draft2020,
		"title":      d.Name,
		"type":       "object",
		"properties": properties,
		"required":   []any{"entity_type"},
	}
}

func (d Definition) groupSchema(kind FieldKind, build func(Field) map[string]any) (map[string]any, []any) {
	props := map[string]any{}
	required := []any{}
	for _, f := range d.Fields {
		if f.Kind != kind {
			continue
		}
		props[f.Name] = build(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return props, required
}

func objectSchema(props map[string]any, required []any) map[string]any {
	out := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func localizedTextSchema(f Field) map[string]any {
	ru := map[string]any{"type": "string"}
	if f.Required {
		ru["minLength"] = 1
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ru": ru,
			"en": map[string]any{"type": "string"},
			"kg": map[string]any{"type": "string"},
		},
		"required":             []any{"ru"},
		"additionalProperties": false,
	}
}

func localizedListSchema(f Field) map[string]any {
	items := map[string]any{"type": []any{"array", "null"}, "items": map[string]any{"type": "string"}}
	ru := items
	if f.Required {
		ru = map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 1}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ru": ru,
			"en": items,
			"kg": items,
		},
		"additionalProperties": false,
	}
}

func codeSchema(f Field) map[string]any {
	out := map[string]any{"type": "string"}
	if codes := f.Labels.Codes(); len(codes) > 0 {
		enum := make([]any, 0, len(codes))
		for _, code := range codes {
			enum = append(enum, code)
		}
		out["enum"] = enum
	}
	return out
}
