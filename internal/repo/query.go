package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrBadQuery возвращается при недопустимом операторе в условии выборки.
var ErrBadQuery = errors.New("bad query")

// Condition — одно условие выборки по колонке.
// Column должен приходить из белого списка сервисного слоя.
type Condition struct {
	Column string
	Op     string // =, <, <=, >, >=
	Value  any
}

// Ordering — сортировка по одной колонке.
type Ordering struct {
	Column string
	Desc   bool
}

var allowedOps = map[string]struct{}{
	"=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
}

// applyQuery навешивает условия и сортировку на запрос gorm.
func applyQuery(tx *gorm.DB, conds []Condition, order *Ordering) (*gorm.DB, error) {
	for _, c := range conds {
		if _, ok := allowedOps[c.Op]; !ok {
			return nil, fmt.Errorf("%w: operator %q", ErrBadQuery, c.Op)
		}
		tx = tx.Where(fmt.Sprintf("%s %s ?", c.Column, c.Op), c.Value)
	}
	if order != nil && order.Column != "" {
		dir := "ASC"
		if order.Desc {
			dir = "DESC"
		}
		tx = tx.Order(order.Column + " " + dir)
	}
	return tx, nil
}
