package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/proficiency"
	"github.com/abhisek/skillpath/internal/skills"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "List catalog skills and manage a learner's skill records",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog skills, or a learner's skills with --mine",
	RunE: func(cmd *cobra.Command, args []string) error {
		mine, _ := cmd.Flags().GetBool("mine")

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if !mine {
			list, err := d.Store.SkillRepo().List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No skills in the catalog. Run `skillpath seed` first.")
				return nil
			}
			fmt.Fprintf(out, "%-16s  %-24s  %s\n", "ID", "Name", "Category")
			for _, s := range list {
				fmt.Fprintf(out, "%-16s  %-24s  %s\n", s.ID, s.Name, s.Category)
			}
			return nil
		}

		user, err := userFlag(cmd)
		if err != nil {
			return err
		}
		list, err := d.Store.UserSkillRepo().ListByUser(ctx, user)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintf(out, "No skills recorded for %s.\n", user)
			return nil
		}
		fmt.Fprintf(out, "%-16s  %-24s  %-13s  %s\n", "Skill", "Name", "Level", "Years")
		for _, us := range list {
			years := "-"
			if us.YearsOfExperience != nil {
				years = strconv.Itoa(*us.YearsOfExperience)
			}
			fmt.Fprintf(out, "%-16s  %-24s  %-13s  %s\n", us.SkillID, us.SkillName, us.Level, years)
		}
		return nil
	},
}

var skillAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a learner's self-assessed level for a skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := userFlag(cmd)
		if err != nil {
			return err
		}
		skillID, _ := cmd.Flags().GetString("skill")
		level, _ := cmd.Flags().GetString("level")
		lvl, err := proficiency.Parse(level)
		if err != nil {
			return err
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()
		ctx := cmd.Context()

		sk, err := d.Store.SkillRepo().Get(ctx, skillID)
		if err != nil {
			return err
		}
		us := skills.UserSkill{UserID: user, SkillID: sk.ID, Level: string(lvl)}
		if cmd.Flags().Changed("years") {
			years, _ := cmd.Flags().GetInt("years")
			if years < 0 {
				return fmt.Errorf("--years must not be negative")
			}
			us.YearsOfExperience = &years
		}
		if err := d.Store.UserSkillRepo().Put(ctx, us); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s is %s\n", user, sk.Name, lvl)
		return nil
	},
}

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Inspect job roles",
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job roles and their required skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		roles, err := d.Store.JobRoleRepo().List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(roles) == 0 {
			fmt.Fprintln(out, "No job roles. Run `skillpath seed` first.")
			return nil
		}
		for _, r := range roles {
			fmt.Fprintf(out, "%s  (%s)\n", r.Title, r.ID)
			for _, rs := range r.Skills {
				fmt.Fprintf(out, "    %-24s  %-13s  %s\n", rs.SkillName, rs.RequiredLevel, rs.Importance)
			}
		}
		return nil
	},
}

func init() {
	skillListCmd.Flags().Bool("mine", false, "List the learner's recorded skills instead of the catalog")

	skillAddCmd.Flags().String("skill", "", "Skill ID")
	skillAddCmd.Flags().String("level", "", "Level: beginner, intermediate, advanced")
	skillAddCmd.Flags().Int("years", 0, "Years of experience")
	_ = skillAddCmd.MarkFlagRequired("skill")
	_ = skillAddCmd.MarkFlagRequired("level")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillAddCmd)
	roleCmd.AddCommand(roleListCmd)
}
