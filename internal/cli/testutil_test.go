package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

const petclinicYAML = `objects:
  - id: petclinic.Pet
    package: petclinic
    name: Pet
    fields:
      - {name: owner, type: Person}
      - {name: visits, type: Visit, plural: true}
  - id: petclinic.Person
    package: petclinic
    name: Person
    fields:
      - {name: pets, type: Pet, plural: true}
  - id: petclinic.visits.Visit
    package: petclinic.visits
    name: Visit
    stereotype: entity
relations:
  - {type: ONE_TO_ONE, from: petclinic.Pet, to: petclinic.Person, label: owner}
  - {type: ONE_TO_MANY, from: petclinic.Person, to: petclinic.Pet, label: pets}
  - {type: ONE_TO_MANY, from: petclinic.Pet, to: petclinic.visits.Visit, label: visits}
`

// isolate runs the test in an empty directory with config and cache
// lookups pointed inside it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func writeModel(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(petclinicYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns what it wrote to
// the command's stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
