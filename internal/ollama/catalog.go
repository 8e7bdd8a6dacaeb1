package ollama

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FallbackModel is selected when the server reports no models at all.
const FallbackModel = "llama3.1:latest"

// Catalog holds the model inventory fetched from the server at startup
// plus the active model selection. The inventory is a snapshot, not a
// live view.
type Catalog struct {
	installed []Model
	resident  []Model
	active    string
}

// LoadCatalog fetches the installed and resident model sets concurrently
// and negotiates the default active model.
func LoadCatalog(ctx context.Context, c *Client) (*Catalog, error) {
	cat := &Catalog{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		models, err := c.ListModels(ctx)
		if err != nil {
			return err
		}
		cat.installed = models
		return nil
	})
	g.Go(func() error {
		models, err := c.ListRunning(ctx)
		if err != nil {
			return err
		}
		cat.resident = models
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cat.active = negotiateDefault(cat.installed, cat.resident)
	return cat, nil
}

// negotiateDefault picks the model that answers the first turn fastest:
// a resident model needs no load delay, then any installed model, then
// the fallback.
func negotiateDefault(installed, resident []Model) string {
	if len(resident) > 0 {
		return resident[0].Name
	}
	if len(installed) > 0 {
		return installed[0].Name
	}
	return FallbackModel
}

// Select makes name the active model. A name missing from the installed
// set is retried once with a ":latest" suffix before failing.
func (cat *Catalog) Select(name string) error {
	if cat.isInstalled(name) {
		cat.active = name
		return nil
	}
	if retry := name + ":latest"; cat.isInstalled(retry) {
		cat.active = retry
		return nil
	}
	return &UnknownModelError{Requested: name, Available: cat.names()}
}

// Active returns the currently selected model name.
func (cat *Catalog) Active() string { return cat.active }

// Installed returns the installed models in server order.
func (cat *Catalog) Installed() []Model { return cat.installed }

// Resident reports whether the named model is loaded in server memory.
func (cat *Catalog) Resident(name string) bool {
	for _, m := range cat.resident {
		if m.Name == name {
			return true
		}
	}
	return false
}

func (cat *Catalog) isInstalled(name string) bool {
	for _, m := range cat.installed {
		if m.Name == name {
			return true
		}
	}
	return false
}

func (cat *Catalog) names() []string {
	names := make([]string, len(cat.installed))
	for i, m := range cat.installed {
		names[i] = m.Name
	}
	return names
}
