// picohubctl invokes the picohub skills from the command line and prints
// results as JSON. Credentials come from the environment (or a .env file),
// the same variables the server uses.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yu010101/picohub/config"
	"github.com/yu010101/picohub/mercari"
	"github.com/yu010101/picohub/openweather"
	"github.com/yu010101/picohub/rakuten"
	"github.com/yu010101/picohub/weather"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "picohubctl",
		Short:         "Invoke picohub skills from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(weatherCommand())
	root.AddCommand(shoppingCommand())
	root.AddCommand(listingCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// printJSON writes a result record as indented JSON on stdout.
func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// weatherSkill builds the weather skill from the environment.
func weatherSkill() (*weather.Skill, error) {
	cfg := config.Load()
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHERMAP_API_KEY is not set")
	}
	client, err := openweather.NewClient(cfg.OpenWeatherAPIKey)
	if err != nil {
		return nil, err
	}
	source := weather.NewRateLimitedSource(client, cfg.WeatherRPS, cfg.WeatherBurst)
	return weather.NewSkill(source, nil), nil
}

func weatherCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Weather reminders for a city",
	}

	type check func(*weather.Skill, *cobra.Command, string) (interface{}, error)
	sub := func(use, short string, run check) *cobra.Command {
		return &cobra.Command{
			Use:   use + " CITY",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				skill, err := weatherSkill()
				if err != nil {
					return err
				}
				result, err := run(skill, c, args[0])
				if err != nil {
					return err
				}
				return printJSON(result)
			},
		}
	}

	cmd.AddCommand(
		sub("forecast", "Current weather and 5-day forecast",
			func(s *weather.Skill, c *cobra.Command, city string) (interface{}, error) {
				return s.GetForecast(c.Context(), city)
			}),
		sub("umbrella", "Check whether to carry an umbrella today",
			func(s *weather.Skill, c *cobra.Command, city string) (interface{}, error) {
				return s.CheckUmbrella(c.Context(), city)
			}),
		sub("laundry", "Check whether laundry will dry outdoors",
			func(s *weather.Skill, c *cobra.Command, city string) (interface{}, error) {
				return s.CheckLaundry(c.Context(), city)
			}),
		sub("heatstroke", "Check the current heatstroke risk",
			func(s *weather.Skill, c *cobra.Command, city string) (interface{}, error) {
				return s.CheckHeatstroke(c.Context(), city)
			}),
	)
	return cmd
}

// rakutenSkill builds the shopping skill from the environment.
func rakutenSkill() (*rakuten.Skill, error) {
	cfg := config.Load()
	if cfg.RakutenAppID == "" {
		return nil, fmt.Errorf("RAKUTEN_APP_ID is not set")
	}
	return rakuten.NewSkill(cfg.RakutenAppID, cfg.RakutenAffiliateID, nil)
}

func shoppingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "Search Rakuten Ichiba",
	}

	var genre string
	var minPrice, maxPrice int
	search := &cobra.Command{
		Use:   "search KEYWORD",
		Short: "Search items by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			skill, err := rakutenSkill()
			if err != nil {
				return err
			}
			opts := rakuten.SearchOptions{GenreID: genre}
			if c.Flags().Changed("min-price") {
				opts.MinPrice = &minPrice
			}
			if c.Flags().Changed("max-price") {
				opts.MaxPrice = &maxPrice
			}
			result, err := skill.Search(c.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	search.Flags().StringVar(&genre, "genre", "", "Rakuten genre ID")
	search.Flags().IntVar(&minPrice, "min-price", 0, "Minimum price in yen")
	search.Flags().IntVar(&maxPrice, "max-price", 0, "Maximum price in yen")

	compare := &cobra.Command{
		Use:   "compare KEYWORD",
		Short: "Compare prices across shops, cheapest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			skill, err := rakutenSkill()
			if err != nil {
				return err
			}
			result, err := skill.ComparePrices(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	points := &cobra.Command{
		Use:   "points ITEM_CODE",
		Short: "Look up the point reward for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			skill, err := rakutenSkill()
			if err != nil {
				return err
			}
			result, err := skill.GetPointRate(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.AddCommand(search, compare, points)
	return cmd
}

func listingCommand() *cobra.Command {
	var condition, brand string
	var photos []string
	cmd := &cobra.Command{
		Use:   "listing ITEM_NAME",
		Short: "Generate a Mercari listing for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			skill := mercari.NewSkill(nil)
			result, err := skill.GenerateListing(args[0], condition, brand, photos)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&condition, "condition", "目立った傷や汚れなし", "Item condition label")
	cmd.Flags().StringVar(&brand, "brand", "", "Brand name")
	cmd.Flags().StringSliceVar(&photos, "photo", nil, "Photo file path (repeatable)")
	return cmd
}
