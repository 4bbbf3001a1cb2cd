package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/config"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

// pair is a directory entry as shown by tag list and person list.
type pair struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func tagPairs(tags []task.Tag) []pair {
	out := make([]pair, len(tags))
	for i, t := range tags {
		out[i] = pair{ID: t.ID, Name: t.Name}
	}
	return out
}

func personPairs(people []task.Person) []pair {
	out := make([]pair, len(people))
	for i, p := range people {
		out[i] = pair{ID: p.ID, Name: p.Name}
	}
	return out
}

func directoryNames(pairs []pair) []string {
	names := make([]string, len(pairs))
	for i, p := range pairs {
		names[i] = p.Name
	}
	return names
}

// directoryKind wires the add and list subcommands for tags or people.
type directoryKind struct {
	use, noun string
	list      func(*config.Config) []pair
	add       func(*config.Config, string) (pair, error)
}

var directoryKinds = []directoryKind{
	{
		use:  "tag",
		noun: "tag",
		list: func(c *config.Config) []pair { return tagPairs(c.Tags) },
		add: func(c *config.Config, name string) (pair, error) {
			t, err := c.AddTag(name)
			return pair{ID: t.ID, Name: t.Name}, err
		},
	},
	{
		use:  "person",
		noun: "person",
		list: func(c *config.Config) []pair { return personPairs(c.People) },
		add: func(c *config.Config, name string) (pair, error) {
			p, err := c.AddPerson(name)
			return pair{ID: p.ID, Name: p.Name}, err
		},
	},
}

func init() {
	for _, k := range directoryKinds {
		parent := &cobra.Command{
			Use:   k.use,
			Short: fmt.Sprintf("Manage declared %s entries", k.noun),
		}
		parent.AddCommand(&cobra.Command{
			Use:   "add NAME",
			Short: fmt.Sprintf("Declare a %s", k.noun),
			Long: fmt.Sprintf(`Declares a %s in config.yml. Its ID is derived from the name.
Tasks may then reference it by ID or by name.`, k.noun),
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDirectoryAdd(cmd, k, args[0])
			},
		})
		parent.AddCommand(&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   fmt.Sprintf("List declared %s entries", k.noun),
			Args:    cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return runDirectoryList(k)
			},
		})
		rootCmd.AddCommand(parent)
	}
}

func runDirectoryAdd(cmd *cobra.Command, k directoryKind, name string) error {
	var added pair
	err := updateConfig(cmd, func(c *config.Config) error {
		var err error
		added, err = k.add(c, name)
		return err
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, added)
	}
	output.Messagef(os.Stdout, "Added %s %q (id: %s)", k.noun, added.Name, added.ID)
	return nil
}

func runDirectoryList(k directoryKind) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	entries := k.list(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "No %s entries declared.\n", k.noun)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-24s %s\n", e.ID, e.Name)
	}
	return nil
}
