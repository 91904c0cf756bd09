package commands

import (
	"MediStock/internal/cli/bootstrap"
	"MediStock/internal/cli/model"
	"MediStock/internal/config"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"
)

var errNegativeStock = errors.New("stock must not be negative")

type medicinesCmd struct{}

func (medicinesCmd) Name() string        { return "medicines" }
func (medicinesCmd) Description() string { return "List medicines with optional filters" }
func (medicinesCmd) Usage() string {
	return "medicines [--aisle=<a>] [--search=<prefix>] [--in-stock] [--sort=name|stock]"
}

func (medicinesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("medicines", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	aisle := fs.String("aisle", "", "точное совпадение прохода")
	search := fs.String("search", "", "префикс названия")
	inStock := fs.Bool("in-stock", false, "только с остатком > 0")
	sortBy := fs.String("sort", "name", "name|stock")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	sortOpt, err := model.ParseSortOption(*sortBy)
	if err != nil {
		return ErrUsage
	}

	return withUser(ctx, cfg, func(app *bootstrap.App, _ *model.User) error {
		vm := app.Inventory
		vm.SetSelectedAisle(*aisle)
		vm.SetSearchText(*search)
		vm.SetShowOnlyInStock(*inStock)
		vm.SetSortBy(sortOpt)
		if err := vm.LoadMedicines(ctx); err != nil {
			return err
		}
		meds := vm.State().Medicines
		if len(meds) == 0 {
			fmt.Fprintln(Out, "No medicines")
			return nil
		}
		for _, m := range meds {
			printMedicine(m)
		}
		fmt.Fprintf(Out, "Total: %d\n", len(meds))
		return nil
	})
}

type aislesCmd struct{}

func (aislesCmd) Name() string        { return "aisles" }
func (aislesCmd) Description() string { return "List distinct aisles" }
func (aislesCmd) Usage() string       { return "aisles" }

func (aislesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withUser(ctx, cfg, func(app *bootstrap.App, _ *model.User) error {
		if err := app.Inventory.LoadAisles(ctx); err != nil {
			return err
		}
		aisles := app.Inventory.State().Aisles
		if len(aisles) == 0 {
			fmt.Fprintln(Out, "No aisles")
			return nil
		}
		for _, a := range aisles {
			fmt.Fprintln(Out, a)
		}
		return nil
	})
}

type medicineAddCmd struct{}

func (medicineAddCmd) Name() string        { return "medicine-add" }
func (medicineAddCmd) Description() string { return "Add a medicine" }
func (medicineAddCmd) Usage() string       { return "medicine-add <name> <stock> <aisle>" }

func (medicineAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	stock, err := strconv.Atoi(args[1])
	if err != nil {
		return ErrUsage
	}
	if stock < 0 {
		return errNegativeStock
	}
	med := model.Medicine{Name: args[0], Stock: stock, Aisle: args[2]}

	return withUser(ctx, cfg, func(app *bootstrap.App, u *model.User) error {
		if err := app.Inventory.AddMedicine(ctx, med, u.Identity()); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Added %s\n", med.Name)
		return nil
	})
}

type medicineEditCmd struct{}

func (medicineEditCmd) Name() string        { return "medicine-edit" }
func (medicineEditCmd) Description() string { return "Edit name, aisle or stock of a medicine" }
func (medicineEditCmd) Usage() string {
	return "medicine-edit [--name=<n>] [--aisle=<a>] [--stock=<n>] <id>"
}

func (medicineEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("medicine-edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "новое название")
	aisle := fs.String("aisle", "", "новый проход")
	stock := fs.Int("stock", 0, "новый остаток; отрицательный сохраняется как 0")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return ErrUsage
	}
	id := fs.Arg(0)

	return withUser(ctx, cfg, func(app *bootstrap.App, u *model.User) error {
		m, err := findMedicine(ctx, app, id)
		if err != nil {
			return err
		}
		newName, newAisle, newStock := m.Name, m.Aisle, m.Stock
		if set["name"] {
			newName = *name
		}
		if set["aisle"] {
			newAisle = *aisle
		}
		if set["stock"] {
			newStock = *stock
		}
		if err := app.Inventory.SaveChanges(ctx, m, newName, newAisle, newStock, u.Identity()); err != nil {
			return err
		}
		if updated, ok := app.Inventory.Medicine(id); ok {
			fmt.Fprintln(Out, "Updated:")
			printMedicine(updated)
		}
		return nil
	})
}

type stockCmd struct{}

func (stockCmd) Name() string        { return "stock" }
func (stockCmd) Description() string { return "Set the stock of a medicine and record it in history" }
func (stockCmd) Usage() string       { return "stock <id> <value>" }

func (stockCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return ErrUsage
	}
	if value < 0 {
		return errNegativeStock
	}

	return withUser(ctx, cfg, func(app *bootstrap.App, u *model.User) error {
		m, err := findMedicine(ctx, app, args[0])
		if err != nil {
			return err
		}
		if err := app.Inventory.UpdateStock(ctx, m, value, u.Identity()); err != nil {
			return err
		}
		if value == m.Stock {
			fmt.Fprintf(Out, "Stock of %s unchanged (%d)\n", m.Name, value)
			return nil
		}
		fmt.Fprintf(Out, "Stock of %s: %d -> %d\n", m.Name, m.Stock, value)
		return nil
	})
}

type medicineDeleteCmd struct{}

func (medicineDeleteCmd) Name() string        { return "medicine-delete" }
func (medicineDeleteCmd) Description() string { return "Delete a medicine" }
func (medicineDeleteCmd) Usage() string       { return "medicine-delete <id>" }

func (medicineDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withUser(ctx, cfg, func(app *bootstrap.App, _ *model.User) error {
		m, err := findMedicine(ctx, app, args[0])
		if err != nil {
			return err
		}
		if err := app.Inventory.DeleteMedicine(ctx, m); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Deleted %s\n", m.Name)
		return nil
	})
}

type historyCmd struct{}

func (historyCmd) Name() string        { return "history" }
func (historyCmd) Description() string { return "Show history of a medicine, newest first" }
func (historyCmd) Usage() string       { return "history <id>" }

func (historyCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withUser(ctx, cfg, func(app *bootstrap.App, _ *model.User) error {
		if err := app.Inventory.LoadHistory(ctx, args[0]); err != nil {
			return err
		}
		hist := app.Inventory.State().History
		if len(hist) == 0 {
			fmt.Fprintln(Out, "No history")
			return nil
		}
		for _, h := range hist {
			fmt.Fprintf(Out, "%s  %s  %s  %s\n", h.Timestamp.Local().Format(time.DateTime), h.User, h.Action, h.Details)
		}
		return nil
	})
}

func init() {
	RegisterCmd(medicinesCmd{})
	RegisterCmd(aislesCmd{})
	RegisterCmd(medicineAddCmd{})
	RegisterCmd(medicineEditCmd{})
	RegisterCmd(stockCmd{})
	RegisterCmd(medicineDeleteCmd{})
	RegisterCmd(historyCmd{})
}
