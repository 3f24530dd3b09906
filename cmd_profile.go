package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagProfileID string
	flagFromAge   int
	flagToAge     int
	flagMonthly   string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Save, load, list and delete stored profiles",
}

var profileSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store the plan as a profile (--id overwrites an existing one)",
	Args:  cobra.NoArgs,
	RunE:  runProfileSave,
}

var profileLoadCmd = &cobra.Command{
	Use:   "load <id>",
	Short: "Write a stored profile to the plan file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileLoad,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Add, edit and remove products in the plan",
}

var productAddCmd = &cobra.Command{
	Use:   "add [subtype]",
	Short: "Add a product interactively, or with defaults when a subtype is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProductAdd,
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products with their summaries",
	Args:  cobra.NoArgs,
	RunE:  runProductList,
}

var productEditCmd = &cobra.Command{
	Use:   "edit <id> field=value...",
	Short: "Set product fields",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runProductEdit,
}

var productRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductRemove,
}

var productDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Copy a product under a new id",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductDuplicate,
}

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Manage expense phases",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an expense phase",
	Args:  cobra.NoArgs,
	RunE:  runExpenseAdd,
}

var expenseSetCmd = &cobra.Command{
	Use:   "set <id> field=value...",
	Short: "Set expense phase fields (fromAge, toAge, monthlyExpenses)",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runExpenseSet,
}

var expenseRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an expense phase",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseRemove,
}

var assumeCmd = &cobra.Command{
	Use:   "assume field=value...",
	Short: "Set planning assumptions (retirementAge, inflationRate, currentAssets, monthlySalary, analysisStart, analysisEnd)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAssume,
}

func init() {
	profileSaveCmd.Flags().StringVar(&flagProfileID, "id", "", "Profile id to overwrite")
	profileCmd.AddCommand(profileSaveCmd, profileLoadCmd, profileListCmd, profileDeleteCmd)

	productCmd.AddCommand(productAddCmd, productListCmd, productEditCmd, productRemoveCmd, productDuplicateCmd)

	expenseAddCmd.Flags().IntVar(&flagFromAge, "from", 0, "First age of the phase")
	expenseAddCmd.Flags().IntVar(&flagToAge, "to", 100, "Last age of the phase")
	expenseAddCmd.Flags().StringVar(&flagMonthly, "monthly", "", "Monthly expenses in today's HKD")
	_ = expenseAddCmd.MarkFlagRequired("monthly")
	expenseCmd.AddCommand(expenseAddCmd, expenseSetCmd, expenseRemoveCmd)

	rootCmd.AddCommand(profileCmd, productCmd, expenseCmd, assumeCmd)
}

// withProfiles opens the configured store for the duration of fn
func withProfiles(fn func(*ProfileStore) error) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := openProfiles(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func runProfileSave(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	return withProfiles(func(store *ProfileStore) error {
		id, err := store.Save(s, flagProfileID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s (%s)\n", id, s.ClientName)
		return nil
	})
}

func runProfileLoad(cmd *cobra.Command, args []string) error {
	return withProfiles(func(store *ProfileStore) error {
		s, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if err := saveSession(s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded profile %s into %s\n", args[0], flagPlan)
		return nil
	})
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	return withProfiles(func(store *ProfileStore) error {
		profiles, err := store.List()
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("  No saved profiles"))
			return nil
		}
		rows := make([][]string, len(profiles))
		for i, p := range profiles {
			rows[i] = []string{p.ID, p.ClientName, fmt.Sprintf("%d", len(p.Products)), p.SavedAt.Local().Format("2006-01-02 15:04")}
		}
		fmt.Fprint(cmd.OutOrStdout(), RenderTable(Table{
			Title:   "Saved profiles",
			Headers: []string{"ID", "Client", "Products", "Saved"},
			Rows:    rows,
		}))
		return nil
	})
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	return withProfiles(func(store *ProfileStore) error {
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
		return nil
	})
}

// resolveProductID accepts a full id or the unique prefix shown in listings
func resolveProductID(s PlanningSession, ref string) (string, error) {
	var match string
	for _, p := range s.Products {
		if p.ID == ref {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("product id %q is ambiguous", ref)
			}
			match = p.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrProductNotFound, ref)
	}
	return match, nil
}

func runProductAdd(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	var p Product
	if len(args) == 1 {
		st, err := ParseSubType(args[0])
		if err != nil {
			return err
		}
		s, p, err = s.AddProduct(st)
		if err != nil {
			return err
		}
	} else {
		s, p, err = NewProductWizard().AddProduct(s)
		if errors.Is(err, ErrWizardCancelled) {
			fmt.Fprintln(cmd.OutOrStdout(), "Discarded")
			return nil
		}
		if err != nil {
			return err
		}
	}
	if err := saveSession(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n%s\n", p.SubType(), shortID(p.ID), p.Summary)
	return nil
}

func runProductList(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	PrintProducts(cmd.OutOrStdout(), s, loadTranslator(cfg))
	return nil
}

func runProductEdit(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	id, err := resolveProductID(s, args[0])
	if err != nil {
		return err
	}
	edits, err := ParseFieldAssignments(args[1:])
	if err != nil {
		return err
	}
	if s, err = s.UpdateProductFields(id, edits); err != nil {
		return err
	}
	if err := saveSession(s); err != nil {
		return err
	}
	p, _ := s.Product(id)
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n%s\n", p.SubType(), shortID(p.ID), p.Summary)
	return nil
}

func runProductRemove(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	id, err := resolveProductID(s, args[0])
	if err != nil {
		return err
	}
	if s, err = s.RemoveProduct(id); err != nil {
		return err
	}
	if err := saveSession(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", shortID(id))
	return nil
}

func runProductDuplicate(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	id, err := resolveProductID(s, args[0])
	if err != nil {
		return err
	}
	s, dup, err := s.DuplicateProduct(id)
	if err != nil {
		return err
	}
	if err := saveSession(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Duplicated %s as %s\n", shortID(id), shortID(dup.ID))
	return nil
}

func runExpenseAdd(cmd *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	monthly, err := ParseNumber("monthly", flagMonthly)
	if err != nil {
		return err
	}
	s, phase, err := s.AddExpensePhase(ExpensePhase{FromAge: flagFromAge, ToAge: flagToAge, MonthlyExpenses: monthly})
	if err != nil {
		return err
	}
	if err := saveSession(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added expense phase %s: age %d-%d at %s/month\n",
		shortID(phase.ID), phase.FromAge, phase.ToAge, FormatHKD(phase.MonthlyExpenses))
	return nil
}

// resolvePhaseID accepts a full phase id or its unique prefix
func resolvePhaseID(s PlanningSession, ref string) (string, error) {
	var match string
	for _, e := range s.Expenses {
		if e.ID == ref {
			return e.ID, nil
		}
		if strings.HasPrefix(e.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("phase id %q is ambiguous", ref)
			}
			match = e.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrPhaseNotFound, ref)
	}
	return match, nil
}

func runExpenseSet(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	id, err := resolvePhaseID(s, args[0])
	if err != nil {
		return err
	}
	edits, err := ParseFieldAssignments(args[1:])
	if err != nil {
		return err
	}
	if s, err = s.UpdateExpensePhaseFields(id, edits); err != nil {
		return err
	}
	if err := saveSession(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated expense phase %s\n", shortID(id))
	return nil
}

func runExpenseRemove(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	id, err := resolvePhaseID(s, args[0])
	if err != nil {
		return err
	}
	if s, err = s.RemoveExpensePhase(id); err != nil {
		return err
	}
	if err := saveSession(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed expense phase %s\n", shortID(id))
	return nil
}

func runAssume(cmd *cobra.Command, args []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	edits, err := ParseFieldAssignments(args)
	if err != nil {
		return err
	}
	for _, e := range edits {
		switch e.name {
		case "clientName":
			s = s.WithClientName(e.raw)
		case "recommendations":
			s = s.WithRecommendations(e.raw)
		default:
			if s, err = s.SetAssumption(e.name, e.raw); err != nil {
				return err
			}
		}
	}
	if err := saveSession(s); err != nil {
		return err
	}
	PrintHeader(cmd.OutOrStdout(), s)
	return nil
}
