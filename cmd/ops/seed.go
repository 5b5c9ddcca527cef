package main

import (
	"fmt"
	"os"
	"strings"

	"organizese/internal/service"
	"organizese/internal/session"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SeedFile is the layout of the people.yml accepted by seed.
type SeedFile struct {
	Skills []string     `yaml:"skills"`
	People []SeedPerson `yaml:"people"`
}

type SeedPerson struct {
	Name         string   `yaml:"name"`
	Email        string   `yaml:"email"`
	IsTeamMember bool     `yaml:"team_member"`
	Skills       []string `yaml:"skills"`
}

func readSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	return &seed, nil
}

var (
	seedFile  string
	seedOwner string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load people, team members and skills from a YAML file",
	Long: `Create the skills and people listed in --file for the user --owner.
Skills that already exist (case-insensitive) are reused. Team members
reference skills by name.

Example file:

  skills: [Go, SQL]
  people:
    - name: Ana
      email: ana@example.com
      team_member: true
      skills: [Go]`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := uuid.Parse(seedOwner)
		if err != nil {
			return fmt.Errorf("--owner must be a user id: %w", err)
		}
		seed, err := readSeedFile(seedFile)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		state, err := session.New(owner, false, nil)
		if err != nil {
			return err
		}
		ctx := session.WithState(cmd.Context(), state)
		people := a.PeopleService()

		existing, err := people.ListSkills(ctx)
		if err != nil {
			return fmt.Errorf("listing skills: %w", err)
		}
		skillIDs := make(map[string]uuid.UUID, len(existing))
		for _, sk := range existing {
			skillIDs[strings.ToLower(sk.Name)] = sk.ID
		}

		for _, name := range seed.Skills {
			if _, ok := skillIDs[strings.ToLower(name)]; ok {
				continue
			}
			sk, err := people.CreateSkill(ctx, name)
			if err != nil {
				return fmt.Errorf("creating skill %q: %w", name, err)
			}
			skillIDs[strings.ToLower(sk.Name)] = sk.ID
			fmt.Printf("Created skill %s (%s)\n", sk.Name, sk.ID)
		}

		for _, sp := range seed.People {
			in := service.PersonInput{Name: sp.Name, Email: sp.Email, IsTeamMember: sp.IsTeamMember}
			for _, name := range sp.Skills {
				id, ok := skillIDs[strings.ToLower(name)]
				if !ok {
					return fmt.Errorf("person %q references unknown skill %q", sp.Name, name)
				}
				in.SkillIDs = append(in.SkillIDs, id)
			}

			p, err := people.CreatePerson(ctx, in)
			if err != nil {
				return fmt.Errorf("creating person %q: %w", sp.Name, err)
			}
			fmt.Printf("Created person %s (%s)\n", p.Name, p.ID)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "people.yml", "Seed file")
	seedCmd.Flags().StringVar(&seedOwner, "owner", "", "User id that will own the records")
	_ = seedCmd.MarkFlagRequired("owner")
}
