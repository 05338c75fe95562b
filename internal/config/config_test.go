package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/tagclean/internal/model"
)

func validConfig() Config {
	return Config{DSN: "postgres://localhost/osm", LogFormat: "text", Parallelism: 2}
}

func TestLoadFromFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("classes:\n  - phone\n  - street\nparallelism: 4\n"), 0644)

	c := validConfig()
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(c.Classes) != 2 || c.Classes[0] != "phone" || c.Classes[1] != "street" {
		t.Errorf("unexpected classes: %v", c.Classes)
	}
	if c.Parallelism != 4 {
		t.Errorf("parallelism: got %d, want 4", c.Parallelism)
	}
}

func TestLoadFromFile_UnknownClass(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("classes:\n  - phone\n  - website\n"), 0644)

	c := validConfig()
	if err := c.LoadFromFile(path); err == nil {
		t.Fatal("expected error for unknown class")
	}
}

func TestLoadFromFile_EmptyDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("classes: []\n"), 0644)

	c := validConfig()
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(c.Classes) != len(model.AllClasses) {
		t.Errorf("expected %d default classes, got %d: %v", len(model.AllClasses), len(c.Classes), c.Classes)
	}
	if c.Parallelism != 2 {
		t.Errorf("parallelism should keep its previous value, got %d", c.Parallelism)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("TAGCLEAN_DB_URL", "postgres://env/osm")
	t.Setenv("TAGCLEAN_PARALLELISM", "3")

	var c Config
	if err := c.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if c.DSN != "postgres://env/osm" {
		t.Errorf("DSN: got %q", c.DSN)
	}
	if c.Parallelism != 3 {
		t.Errorf("Parallelism: got %d, want 3", c.Parallelism)
	}
	if c.LogFormat != "text" || c.LogLevel != "info" {
		t.Errorf("defaults not applied: format=%q level=%q", c.LogFormat, c.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	c = validConfig()
	c.DSN = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error for missing DSN")
	}

	c = validConfig()
	c.LogFormat = "xml"
	if err := c.Validate(); err == nil {
		t.Error("expected error for bad log format")
	}

	c = validConfig()
	c.Parallelism = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero parallelism")
	}
}

func TestValidateLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.parquet")
	os.WriteFile(path, []byte("x"), 0644)

	c := validConfig()
	c.FilePath = path
	c.Table = model.WayTags
	if err := c.ValidateLoad(); err != nil {
		t.Fatalf("ValidateLoad: %v", err)
	}

	c.Table = "ways"
	if err := c.ValidateLoad(); err == nil {
		t.Error("expected error for non-tag table")
	}

	c.Table = model.NodeTags
	c.FilePath = filepath.Join(dir, "missing.parquet")
	if err := c.ValidateLoad(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSelectedClasses(t *testing.T) {
	c := validConfig()
	c.Classes = []string{"postcode"}
	got, err := c.SelectedClasses()
	if err != nil {
		t.Fatalf("SelectedClasses: %v", err)
	}
	if len(got) != 1 || got[0].Selector.Table != model.WayTags || got[0].Attribute != model.AttrPostcode {
		t.Errorf("unexpected classes: %+v", got)
	}
}
