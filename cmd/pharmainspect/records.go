package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/pharmainspect"
	"github.com/poiesic/pharmainspect/client"
	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/records"
	"github.com/urfave/cli/v2"
)

var errNotLoggedIn = errors.New("not logged in")

func criteriaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "institution", Usage: "Institution name contains"},
		&cli.StringFlag{Name: "location", Usage: "Inspection location contains"},
		&cli.StringFlag{Name: "pharmacist", Usage: "Present pharmacist contains"},
		&cli.StringFlag{Name: "from", Usage: "Inspected on or after (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "to", Usage: "Inspected on or before (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "violation", Usage: "Any violation contains"},
		&cli.StringFlag{Name: "workplace", Usage: "Workplace contains"},
		&cli.StringFlag{Name: "inventory", Usage: "Inventory management violation contains"},
		&cli.StringFlag{Name: "inspector", Usage: "Inspector name contains"},
		&cli.StringSliceFlag{Name: "inspectors", Usage: "Selected inspectors (repeatable)"},
		&cli.StringSliceFlag{Name: "workplaces", Usage: "Selected workplaces (repeatable)"},
	}
}

func criteriaFromFlags(c *cli.Context) core.Criteria {
	return core.Criteria{
		InstitutionName:    c.String("institution"),
		InspectionLocation: c.String("location"),
		PresentPharmacist:  c.String("pharmacist"),
		DateFrom:           c.String("from"),
		DateTo:             c.String("to"),
		ViolationText:      c.String("violation"),
		WorkPlace:          c.String("workplace"),
		InventoryType:      c.String("inventory"),
		InspectorName:      c.String("inspector"),
		SelectedInspectors: c.StringSlice("inspectors"),
		SelectedWorkPlaces: c.StringSlice("workplaces"),
	}
}

func newClient(c *cli.Context) (*client.Client, error) {
	cl, err := client.New(client.NewConfig(client.WithBaseURL(c.String("server"))))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return cl, nil
}

func searchCommand(c *cli.Context) error {
	cl, err := newClient(c)
	if err != nil {
		return err
	}
	manager, err := records.NewManager(cl, records.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	var user *core.User
	if c.Bool("mine") {
		user, err = currentUser(c)
		if err != nil {
			return err
		}
	}

	criteria := criteriaFromFlags(c)
	if _, err := manager.Search(c.Context, criteria); err != nil {
		return err
	}

	visible := manager.Visible(criteria, user, c.Bool("mine"))
	printRecords(c.App.Writer, visible)
	fmt.Fprintf(c.App.Writer, "Found %d records\n", len(visible))
	return nil
}

func listRecordsCommand(c *cli.Context) error {
	cl, err := newClient(c)
	if err != nil {
		return err
	}
	page, err := cl.ListRecords(c.Context, c.Int("page"), c.Int("per-page"), c.String("text"))
	if err != nil {
		return err
	}
	printRecords(c.App.Writer, page.Records)
	fmt.Fprintf(c.App.Writer, "Page %d of %d (%d records)\n", page.Page, page.Pages, page.Total)
	return nil
}

func getRecordCommand(c *cli.Context) error {
	id := core.ID(c.Args().First())
	if id.IsZero() {
		return records.ErrMissingID
	}
	cl, err := newClient(c)
	if err != nil {
		return err
	}
	record, err := cl.GetRecord(c.Context, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}

func deleteRecordCommand(c *cli.Context) error {
	id := core.ID(c.Args().First())
	if id.IsZero() {
		return records.ErrMissingID
	}
	cl, err := newClient(c)
	if err != nil {
		return err
	}

	db, err := openSession(c)
	if err != nil {
		return err
	}
	defer db.Close()
	index, err := db.NewAttachmentIndex()
	if err != nil {
		return err
	}

	manager, err := records.NewManager(cl, records.WithAttachmentIndex(index), records.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	if err := manager.Delete(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Deleted record %s\n", id)
	return nil
}

func printRecords(w io.Writer, recs []*core.Record) {
	for _, r := range recs {
		bd := r.BasicData
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.SerialNumber, bd.Date, bd.InstitutionName, bd.InspectionLocation, bd.InspectorName.Join(", "))
	}
}

// openSession opens the local session database.
func openSession(c *cli.Context) (*pharmainspect.Database, error) {
	db, err := pharmainspect.NewDatabase(c.String("session"))
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	return db, nil
}

func currentUser(c *cli.Context) (*core.User, error) {
	db, err := openSession(c)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	store, err := db.NewSessionStore(c.Context)
	if err != nil {
		return nil, err
	}
	user := store.CurrentUser()
	if user == nil {
		return nil, errNotLoggedIn
	}
	return user, nil
}
