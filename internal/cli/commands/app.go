package commands

import (
	"MediStock/internal/cli/bootstrap"
	"MediStock/internal/cli/model"
	"MediStock/internal/config"
	"context"
	"fmt"
)

// withApp открывает клиент на время выполнения fn.
func withApp(ctx context.Context, cfg *config.Config, fn func(app *bootstrap.App) error) error {
	app, done, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	return fn(app)
}

// withUser — то же, но только для вошедшего пользователя.
func withUser(ctx context.Context, cfg *config.Config, fn func(app *bootstrap.App, user *model.User) error) error {
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		u, err := app.User()
		if err != nil {
			return err
		}
		return fn(app, u)
	})
}

// findMedicine загружает полный список и ищет в нём id.
func findMedicine(ctx context.Context, app *bootstrap.App, id string) (model.Medicine, error) {
	if err := app.Inventory.LoadMedicines(ctx); err != nil {
		return model.Medicine{}, err
	}
	m, ok := app.Inventory.Medicine(id)
	if !ok {
		return model.Medicine{}, fmt.Errorf("medicine %s not found", id)
	}
	return m, nil
}

func printMedicine(m model.Medicine) {
	fmt.Fprintf(Out, "- %s  %s  stock=%d  aisle=%s\n", m.ID, m.Name, m.Stock, m.Aisle)
}
