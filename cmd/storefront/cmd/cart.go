package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/storefront/internal/cart"
	"github.com/donaldgifford/storefront/internal/config"
	"github.com/donaldgifford/storefront/pkg/logger"
)

func cartCmd() *cobra.Command {
	cartRoot := &cobra.Command{
		Use:   "cart",
		Short: "Inspect the server-held cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the seeded cart with totals",
		Long: "show loads the server cart and prints it with totals. With --items the\n" +
			"cart is built from a JSON array of line items instead, the way a\n" +
			"screen hands a whole cart over.",
		Example: `  storefront cart show
  storefront cart show --id 2 --output json
  storefront cart show --items cart.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			c := newCart(cfg, newClient(cfg, log), log)
			if path, _ := cmd.Flags().GetString("items"); path != "" {
				items, err := readLineItems(path)
				if err != nil {
					return err
				}
				c.Replace(items)
			} else if err := c.Load(cmd.Context()); err != nil {
				return fmt.Errorf("%w (run the command again to retry)", err)
			}

			items, totals := c.Items(), c.ComputeTotals()
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), cartView{Items: items, Totals: totals})
			}
			return printCartTable(cmd.OutOrStdout(), items, totals)
		},
	}
	show.Flags().Int("id", 0, "server cart id (default from config)")
	show.Flags().String("items", "", "JSON file of line items to show instead of the server cart")
	cobra.CheckErr(viper.BindPFlag("cart.id", show.Flags().Lookup("id")))

	cartRoot.AddCommand(show)
	return cartRoot
}

func newCart(cfg *config.Config, seeder cart.Seeder, log *slog.Logger) *cart.Cart {
	return cart.New(
		cart.WithLogger(logger.Component(log, "cart")),
		cart.WithDelivery(cfg.Cart.DeliveryFee()),
		cart.WithUnit(cfg.Cart.Unit),
		cart.WithSeeder(seeder, cfg.Cart.ID),
	)
}

// readLineItems decodes a JSON array of cart line items from path.
func readLineItems(path string) ([]cart.LineItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading line items: %w", err)
	}
	var items []cart.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding line items from %s: %w", path, err)
	}
	return items, nil
}
