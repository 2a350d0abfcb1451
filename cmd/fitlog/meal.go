// ABOUTME: CLI commands for meals, ingredients, portions and photo analysis.
// ABOUTME: Ingredient specs are name:grams[:kcal:protein:carbs:fat].
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/analysis"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/nutrition"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	mealIngredients []string
	mealAt          string
	mealNotes       string
	mealDate        string
	mealLimit       int

	analyzePhoto       string
	analyzeDescription string
	analyzeFeedback    string
	analyzeSave        bool

	ingName    string
	ingWeight  float64
	ingMacros  = map[string]*float64{}
	macroFlags = []string{"kcal", "protein", "carbs", "fat"}
)

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"m"},
	Short:   "Log meals and macros",
	Long: `Log meals as lists of ingredients with optional macros.

INGREDIENT FORMAT:

  name:grams[:kcal:protein:carbs:fat]

  Leave a macro empty to record it as unknown, e.g. "apple:150:78:::0.3".

EXAMPLES:

  fitlog meal add "Breakfast" -i "oats:80:300:10:54:6" -i "milk:200:84:6:10:2"
  fitlog meal analyze --photo lunch.jpg --save
  fitlog meal portion 3f2a 2            # Double every ingredient
  fitlog meal ingredient edit 3f2a 9c1b --weight 150`,
}

func printMeal(m *models.MealEntry) {
	color.New(color.Bold).Println(m.Name)
	fmt.Printf("%s %s", faint.Sprint(shortID(m.ID)), faint.Sprint(m.Date.Format("2006-01-02 15:04")))
	if mult := m.EffectiveMultiplier(); mult != 1 {
		fmt.Printf(" %s", faint.Sprintf("(x%g)", mult))
	}
	fmt.Println()
	if m.Notes != nil {
		fmt.Printf("%s\n", faint.Sprint(*m.Notes))
	}
	fmt.Println()
	for _, ing := range m.Ingredients {
		var macros models.Macros
		if ing.Macros != nil {
			macros = *ing.Macros
		}
		fmt.Printf("  %s %s %6gg  %s kcal  P %s  C %s  F %s\n",
			faint.Sprint(shortID(ing.ID)),
			padRight(truncate(ing.Name, 20), 20),
			ing.Weight,
			formatMacro(macros.Calories, ""),
			formatMacro(macros.Protein, "g"),
			formatMacro(macros.Carbs, "g"),
			formatMacro(macros.Fat, "g"))
	}
	fmt.Printf("\n  Total: %s\n", formatTotals(nutrition.Totals(nutrition.MealMacros(*m))))
}

var mealAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Log a meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(mealIngredients) == 0 {
			return fmt.Errorf("at least one --ingredient is required")
		}
		meal := models.NewMealEntry(args[0])
		if mealAt != "" {
			t, err := parseTime(mealAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", mealAt)
			}
			meal.WithDate(t)
		}
		if mealNotes != "" {
			meal.WithNotes(mealNotes)
		}
		for _, spec := range mealIngredients {
			ing, err := parseIngredient(spec)
			if err != nil {
				return err
			}
			meal.WithIngredients(ing)
		}

		saved, err := svc.Meals.Create(cmd.Context(), *meal)
		if err != nil {
			return fmt.Errorf("failed to log meal: %w", err)
		}
		color.Green("✓ Logged %s", saved.Name)
		fmt.Printf("  %s %s\n", faint.Sprint(shortID(saved.ID)), formatTotals(nutrition.Totals(nutrition.MealMacros(*saved))))
		return nil
	},
}

func printAnalysis(a *analysis.Analysis) {
	color.New(color.Bold).Println(a.Name)
	for _, ing := range a.Ingredients {
		fmt.Printf("  %s %6gg  %s kcal  P %s  C %s  F %s\n",
			padRight(truncate(ing.Name, 20), 20),
			ing.Weight,
			formatMacro(ing.Calories, ""),
			formatMacro(ing.Protein, "g"),
			formatMacro(ing.Carbs, "g"),
			formatMacro(ing.Fat, "g"))
	}
}

var mealAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Estimate a meal from a photo and/or description",
	Long: `Send a meal photo and/or description to the configured vision model and
print the estimated ingredients and macros.

The API key comes from 'fitlog settings set-key' or OPENAI_API_KEY.

EXAMPLES:

  fitlog meal analyze --photo dinner.jpg
  fitlog meal analyze -d "two eggs and toast" --save
  fitlog meal analyze --photo bowl.jpg --feedback "the rice was brown rice" --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer := newAnalyzer()
		ctx := cmd.Context()

		result, err := analyzer.Analyze(ctx, analysis.Request{ImagePath: analyzePhoto, Description: analyzeDescription})
		if err == nil && analyzeFeedback != "" {
			result, err = analyzer.AnalyzeWithFeedback(ctx, analysis.FeedbackRequest{
				Feedback:    analyzeFeedback,
				ImagePath:   analyzePhoto,
				Description: analyzeDescription,
				Previous:    result,
			})
		}
		if err != nil {
			switch {
			case errors.Is(err, analysis.ErrMissingAPIKey):
				return fmt.Errorf("no API key configured (run 'fitlog settings set-key' or set OPENAI_API_KEY)")
			case errors.Is(err, analysis.ErrNoInput):
				return fmt.Errorf("provide --photo and/or --description")
			}
			if raw, ok := analysis.RawResponse(err); ok {
				fmt.Fprintln(os.Stderr, faint.Sprint(raw))
			}
			return fmt.Errorf("analysis failed: %w", err)
		}

		printAnalysis(result)
		if !analyzeSave {
			fmt.Println(faint.Sprint("\nRun again with --save to log this meal."))
			return nil
		}

		saved, err := svc.Meals.CreateFromAnalysis(ctx, result, time.Now(), analyzePhoto)
		if err != nil {
			return fmt.Errorf("failed to save meal: %w", err)
		}
		color.Green("\n✓ Logged %s (%s)", saved.Name, shortID(saved.ID))
		return nil
	},
}

var mealListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		var meals []models.MealEntry
		if mealDate != "" {
			day, err := parseDay(mealDate)
			if err != nil {
				return err
			}
			meals = svc.Meals.OnDay(cmd.Context(), day)
		} else {
			meals = svc.Meals.List(cmd.Context())
		}

		if len(meals) == 0 {
			fmt.Println("No meals found.")
			return nil
		}
		if mealLimit > 0 && len(meals) > mealLimit {
			meals = meals[:mealLimit]
		}
		for _, m := range meals {
			t := nutrition.Totals(nutrition.MealMacros(m))
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(m.ID)),
				faint.Sprint(m.Date.Format("2006-01-02 15:04")),
				padRight(truncate(m.Name, 24), 24),
				formatTotals(t))
		}
		return nil
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a meal with its ingredients",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := svc.Meals.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("meal not found: %s", args[0])
		}
		printMeal(m)
		return nil
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a meal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := svc.Meals.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("meal not found: %s", args[0])
		}
		if err := svc.Meals.Delete(cmd.Context(), m.ID); err != nil {
			return fmt.Errorf("failed to delete meal: %w", err)
		}
		color.Yellow("✗ Deleted %s", m.Name)
		return nil
	},
}

var mealPortionCmd = &cobra.Command{
	Use:   "portion <id> <multiplier>",
	Short: "Scale a meal to a portion multiplier (at least 1)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mult := nutrition.ParseNumeric(args[1])
		m, err := svc.Meals.SetMultiplier(cmd.Context(), args[0], mult)
		if errors.Is(err, nutrition.ErrMultiplierTooSmall) {
			return fmt.Errorf("portion must be at least 1 (got %s)", args[1])
		}
		if err != nil {
			return fmt.Errorf("failed to scale meal: %w", err)
		}
		color.Green("✓ %s is now x%g", m.Name, m.EffectiveMultiplier())
		fmt.Printf("  %s\n", formatTotals(nutrition.Totals(nutrition.MealMacros(*m))))
		return nil
	},
}

var mealIngredientCmd = &cobra.Command{
	Use:     "ingredient",
	Aliases: []string{"ing"},
	Short:   "Edit a meal's ingredients",
}

var mealIngredientAddCmd = &cobra.Command{
	Use:   "add <meal-id> <spec>",
	Short: "Add an ingredient to a meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ing, err := parseIngredient(args[1])
		if err != nil {
			return err
		}
		m, err := svc.Meals.AddIngredient(cmd.Context(), args[0], ing)
		if err != nil {
			return fmt.Errorf("failed to add ingredient: %w", err)
		}
		color.Green("✓ Added %s to %s", ing.Name, m.Name)
		return nil
	},
}

var mealIngredientEditCmd = &cobra.Command{
	Use:   "edit <meal-id> <ingredient-id>",
	Short: "Edit an ingredient",
	Long: `Edit an ingredient's name, weight or macros.

Changing only --weight rescales the ingredient's macros proportionally.
Any macro flag sets that macro explicitly and turns rescaling off.

EXAMPLES:

  fitlog meal ingredient edit 3f2a 9c1b --weight 150
  fitlog meal ingredient edit 3f2a 9c1b --kcal 210 --protein 12`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := svc.Meals.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("meal not found: %s", args[0])
		}

		var upd storage.IngredientUpdate
		if cmd.Flags().Changed("name") {
			upd.Name = &ingName
		}
		if cmd.Flags().Changed("weight") {
			upd.Weight = &ingWeight
		}

		var explicit *models.Macros
		for _, f := range macroFlags {
			if !cmd.Flags().Changed(f) {
				continue
			}
			if explicit == nil {
				explicit = &models.Macros{}
				for _, ing := range m.Ingredients {
					if strings.HasPrefix(ing.ID, args[1]) && ing.Macros != nil {
						*explicit = ing.Macros.Clone()
					}
				}
			}
			v := *ingMacros[f]
			switch f {
			case "kcal":
				explicit.Calories = models.Float(v)
			case "protein":
				explicit.Protein = models.Float(v)
			case "carbs":
				explicit.Carbs = models.Float(v)
			case "fat":
				explicit.Fat = models.Float(v)
			}
		}
		upd.Macros = explicit

		updated, err := svc.Meals.UpdateIngredient(cmd.Context(), m.ID, args[1], upd)
		if errors.Is(err, nutrition.ErrZeroWeight) {
			return fmt.Errorf("cannot rescale an ingredient logged at 0g; set its macros explicitly")
		}
		if err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}
		color.Green("✓ Updated ingredient")
		fmt.Printf("  %s\n", formatTotals(nutrition.Totals(nutrition.MealMacros(*updated))))
		return nil
	},
}

var mealIngredientRemoveCmd = &cobra.Command{
	Use:     "rm <meal-id> <ingredient-id>",
	Aliases: []string{"remove"},
	Short:   "Remove an ingredient",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := svc.Meals.RemoveIngredient(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to remove ingredient: %w", err)
		}
		color.Yellow("✗ Removed ingredient from %s", m.Name)
		return nil
	},
}

func init() {
	mealAddCmd.Flags().StringArrayVarP(&mealIngredients, "ingredient", "i", nil, "ingredient spec (repeatable)")
	mealAddCmd.Flags().StringVar(&mealAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	mealAddCmd.Flags().StringVar(&mealNotes, "notes", "", "notes for the meal")

	mealAnalyzeCmd.Flags().StringVarP(&analyzePhoto, "photo", "p", "", "meal photo path")
	mealAnalyzeCmd.Flags().StringVarP(&analyzeDescription, "description", "d", "", "what you ate")
	mealAnalyzeCmd.Flags().StringVarP(&analyzeFeedback, "feedback", "f", "", "correction to apply to the first estimate")
	mealAnalyzeCmd.Flags().BoolVarP(&analyzeSave, "save", "s", false, "log the analyzed meal")

	mealListCmd.Flags().StringVar(&mealDate, "date", "", "only meals on this day (YYYY-MM-DD, today, yesterday)")
	mealListCmd.Flags().IntVarP(&mealLimit, "limit", "l", 20, "max number of results")

	mealIngredientEditCmd.Flags().StringVar(&ingName, "name", "", "new name")
	mealIngredientEditCmd.Flags().Float64Var(&ingWeight, "weight", 0, "new weight in grams")
	for _, f := range macroFlags {
		ingMacros[f] = mealIngredientEditCmd.Flags().Float64(f, 0, "set "+f+" explicitly")
	}

	mealIngredientCmd.AddCommand(mealIngredientAddCmd)
	mealIngredientCmd.AddCommand(mealIngredientEditCmd)
	mealIngredientCmd.AddCommand(mealIngredientRemoveCmd)

	mealCmd.AddCommand(mealAddCmd)
	mealCmd.AddCommand(mealAnalyzeCmd)
	mealCmd.AddCommand(mealListCmd)
	mealCmd.AddCommand(mealShowCmd)
	mealCmd.AddCommand(mealDeleteCmd)
	mealCmd.AddCommand(mealPortionCmd)
	mealCmd.AddCommand(mealIngredientCmd)
	rootCmd.AddCommand(mealCmd)
}
