package service

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Имена коллекций документного хранилища.
const (
	CollectionMedicines = "medicines"
	CollectionHistory   = "history"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindTime
)

type fieldDef struct {
	column string
	kind   fieldKind
}

// Белые списки полей: имя поля документа -> колонка таблицы.
var medicineFields = map[string]fieldDef{
	"name":  {column: "name", kind: kindString},
	"stock": {column: "stock", kind: kindInt},
	"aisle": {column: "aisle", kind: kindString},
}

var historyFields = map[string]fieldDef{
	"medicineId": {column: "medicine_id", kind: kindString},
	"user":       {column: "actor", kind: kindString},
	"action":     {column: "action", kind: kindString},
	"details":    {column: "details", kind: kindString},
	"timestamp":  {column: "recorded_at", kind: kindTime},
}

var queryOps = map[string]string{
	"==": "=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

func fieldsOf(collection string) (map[string]fieldDef, error) {
	switch collection {
	case CollectionMedicines:
		return medicineFields, nil
	case CollectionHistory:
		return historyFields, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
}

// coerce приводит значение из JSON к типу поля.
func coerce(field string, kind fieldKind, v any) (any, error) {
	switch kind {
	case kindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidValue, field)
		}
		return s, nil
	case kindInt:
		switch n := v.(type) {
		case float64:
			if n != math.Trunc(n) || math.IsInf(n, 0) {
				return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, field)
			}
			return int64(n), nil
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, field)
			}
			return i, nil
		}
		return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, field)
	case kindTime:
		switch t := v.(type) {
		case time.Time:
			return t.UTC(), nil
		case string:
			parsed, err := time.Parse(time.RFC3339Nano, t)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be RFC3339", ErrInvalidValue, field)
			}
			return parsed.UTC(), nil
		}
		return nil, fmt.Errorf("%w: %s must be RFC3339", ErrInvalidValue, field)
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidField, field)
}

// columns переводит данные документа в значения колонок.
func columns(fields map[string]fieldDef, data map[string]any) (map[string]any, error) {
	res := make(map[string]any, len(data))
	for name, raw := range data {
		def, ok := fields[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, name)
		}
		v, err := coerce(name, def.kind, raw)
		if err != nil {
			return nil, err
		}
		res[def.column] = v
	}
	return res, nil
}
