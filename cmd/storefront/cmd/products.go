package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/storefront/internal/catalog"
	"github.com/donaldgifford/storefront/pkg/logger"
)

func productsCmd() *cobra.Command {
	productsRoot := &cobra.Command{
		Use:   "products",
		Short: "List and search products",
		Long:  "Page through the product catalog or search it by title.",
	}

	productsRoot.AddCommand(
		productsListCmd(),
		productsSearchCmd(),
	)

	return productsRoot
}

func productsListCmd() *cobra.Command {
	var (
		page  int
		pages int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one or more pages of products",
		Example: `  # First page
  storefront products list

  # Pages 3 through 5, as JSON
  storefront products list --page 3 --pages 3 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			ctrl := catalog.NewController(newClient(cfg, log),
				catalog.WithLogger(logger.Component(log, "catalog")),
				catalog.WithPageSize(cfg.Catalog.PageSize),
			)
			defer ctrl.Close()

			ctrl.LoadPage(cmd.Context(), page)
			for range pages - 1 {
				before := len(ctrl.State().Products)
				ctrl.LoadMore(cmd.Context())
				if len(ctrl.State().Products) == before {
					break
				}
			}

			st := ctrl.State()
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), st)
			}
			if len(st.Products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Page %d, %d products\n\n", st.Page, len(st.Products))
			return printProductsTable(cmd.OutOrStdout(), st.Products, nil)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "first page to load (1-based)")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of consecutive pages to load")

	return cmd
}

func productsSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search products by title",
		Example: `  storefront products search phone
  storefront products search "red lipstick" --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			ctrl := catalog.NewController(newClient(cfg, log),
				catalog.WithLogger(logger.Component(log, "catalog")),
			)
			defer ctrl.Close()

			ctrl.ExecuteSearch(cmd.Context(), args[0])

			st := ctrl.State()
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), st.Products)
			}
			if len(st.Products) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No products match %q.\n", args[0])
				return nil
			}
			return printProductsTable(cmd.OutOrStdout(), st.Products, nil)
		},
	}
}
