package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"psibooking/database/repository"
	"psibooking/models"
	"psibooking/services/schedule"
	"psibooking/services/search"

	"go.uber.org/zap"
)

// Context is shared by every command.
type Context struct {
	Ctx    context.Context
	Logger *zap.Logger
}

// Window is an inclusive date range in the psychologist's calendar.
type Window struct {
	From string `help:"First day (YYYY-MM-DD)." required:""`
	To   string `help:"Last day (YYYY-MM-DD), inclusive." required:""`
}

func (w Window) parse() (time.Time, time.Time, error) {
	from, err := time.Parse(time.DateOnly, w.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := time.Parse(time.DateOnly, w.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", w.To, w.From)
	}
	return from, to, nil
}

type MaterializeCmd struct {
	Window
	Psychologist []string `help:"Only these psychologist ids (repeatable)." short:"p"`
}

func (c *MaterializeCmd) Run(app *Context) error {
	from, to, err := c.parse()
	if err != nil {
		return err
	}
	slots := repository.NewMongoSlotRepo()
	if err := slots.EnsureIndexes(app.Ctx); err != nil {
		return err
	}
	m := &schedule.Materializer{
		Psychologists: repository.NewMongoPsychologistRepo(),
		Slots:         slots,
		Logger:        app.Logger,
	}
	report, err := m.Materialize(app.Ctx, from, to, c.Psychologist...)
	if err != nil {
		return err
	}
	fmt.Printf("psychologists=%d generated=%d created=%d\n", report.Psychologists, report.Generated, report.Created)
	return nil
}

type ReindexCmd struct {
	Window
}

func (c *ReindexCmd) Run(app *Context) error {
	from, to, err := c.parse()
	if err != nil {
		return err
	}
	replica := repository.NewMongoReplicaRepo()
	if err := replica.EnsureIndexes(app.Ctx); err != nil {
		return err
	}
	ix := &search.Indexer{
		Psychologists: repository.NewMongoPsychologistRepo(),
		Slots:         repository.NewMongoSlotRepo(),
		Replica:       replica,
		Logger:        app.Logger,
	}
	// Slot times are naive; include the whole last day.
	n, err := ix.Reindex(app.Ctx, from, to.Add(24*time.Hour-time.Minute))
	if err != nil {
		return err
	}
	fmt.Printf("indexed=%d\n", n)
	return nil
}

type SeedCmd struct {
	File string `arg:"" help:"JSON array of psychologists." type:"existingfile"`
}

func (c *SeedCmd) Run(app *Context) error {
	list, err := readPsychologists(c.File)
	if err != nil {
		return err
	}
	store := repository.NewMongoPsychologistRepo()
	if err := store.EnsureIndexes(app.Ctx); err != nil {
		return err
	}
	for i := range list {
		if err := store.Save(app.Ctx, &list[i]); err != nil {
			return fmt.Errorf("save %s: %w", list[i].ID, err)
		}
	}
	app.Logger.Info("psychologists seeded", zap.Int("count", len(list)))
	return nil
}

func readPsychologists(path string) ([]models.Psychologist, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []models.Psychologist
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	for i := range list {
		p := &list[i]
		if p.ID == "" {
			return nil, fmt.Errorf("entry %d has no id", i)
		}
		for j, t := range p.Themes {
			parsed, ok := models.ParseTheme(string(t))
			if !ok {
				return nil, fmt.Errorf("%s: unknown theme %q", p.ID, t)
			}
			p.Themes[j] = parsed
		}
		for _, w := range p.WeeklySchedule {
			if _, _, err := w.Window(); err != nil {
				return nil, fmt.Errorf("%s: %w", p.ID, err)
			}
		}
		if p.Timezone == "" {
			p.Timezone = models.DefaultTimezone
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
	}
	return list, nil
}
