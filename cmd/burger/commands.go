package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stellarburger/internal/async"
	"stellarburger/internal/catalog"
	"stellarburger/internal/construction"
	"stellarburger/internal/feed"
	"stellarburger/internal/models"
	"stellarburger/internal/orders"
	"stellarburger/internal/store"
)

// settled turns a failed result into a command error
func settled[T any](r async.Result[T], fallback string) error {
	if r.OK() {
		return nil
	}
	return errors.New(r.ReasonOr(fallback))
}

func (c *cli) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the ingredients on sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				state := s.State().Catalog
				out := cmd.OutOrStdout()
				for _, t := range []models.IngredientType{models.IngredientBun, models.IngredientSauce, models.IngredientMain} {
					fmt.Fprintf(out, "%s:\n", t)
					for _, ing := range catalog.ByType(state, t) {
						fmt.Fprintf(out, "  %s  %-40s %6d\n", ing.ID, ing.Name, ing.Price)
					}
				}
				return nil
			})
		},
	}
}

func printBoard(out io.Writer, state feed.State) {
	fmt.Fprintf(out, "Completed all time: %d\nCompleted today: %d\n", state.Total, state.TotalToday)
	fmt.Fprintf(out, "Ready: %v\nIn progress: %v\n", feed.ReadyNumbers(state), feed.InProgressNumbers(state))
}

func (c *cli) feedCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the public order feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				out := cmd.OutOrStdout()
				if !watch {
					if err := settled(s.FetchFeed(ctx), feed.FallbackError); err != nil {
						return err
					}
					printBoard(out, s.State().Feed)
					return nil
				}

				unsubscribe := s.Subscribe(func(state store.State) {
					if state.Feed.Error != "" {
						fmt.Fprintf(out, "feed error: %s\n", state.Feed.Error)
						return
					}
					printBoard(out, state.Feed)
				})
				defer unsubscribe()
				return s.WatchFeed(ctx, feed.NewStream(c.cfg.FeedURL))
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Follow the live feed until interrupted")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var data models.RegisterData
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				r := s.Register(ctx, data)
				if !r.OK() {
					return errors.New(s.State().Session.Error)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", r.Payload.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&data.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&data.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&data.Password, "password", "", "Account password")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var data models.LoginData
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				r := s.Login(ctx, data)
				if !r.OK() {
					return errors.New(s.State().Session.Error)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", r.Payload.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&data.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&data.Password, "password", "", "Account password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				s.Logout(ctx)
				if msg := s.State().Session.Error; msg != "" {
					return errors.New(msg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	var update models.ProfileUpdate
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if !s.State().Session.IsAuthenticated {
					return store.ErrNotAuthenticated
				}
				if update != (models.ProfileUpdate{}) {
					s.UpdateProfile(ctx, update)
				}
				state := s.State().Session
				if state.Error != "" {
					return errors.New(state.Error)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", state.User.Name, state.User.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&update.Name, "name", "", "New display name")
	cmd.Flags().StringVar(&update.Email, "email", "", "New email")
	cmd.Flags().StringVar(&update.Password, "password", "", "New password")
	return cmd
}

func (c *cli) forgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password EMAIL",
		Short: "Request a password reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if !s.ForgotPassword(ctx, args[0]).OK() {
					return errors.New(s.State().Session.Error)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Check your mailbox for the reset token")
				return nil
			})
		},
	}
}

func (c *cli) resetPasswordCmd() *cobra.Command {
	var data models.PasswordReset
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if !s.ResetPassword(ctx, data).OK() {
					return errors.New(s.State().Session.Error)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&data.Token, "token", "", "Reset token from the email")
	cmd.Flags().StringVar(&data.Password, "password", "", "New password")
	return cmd
}

func (c *cli) orderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order INGREDIENT_ID...",
		Short: "Build a burger from catalog ids and place the order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				cat := s.State().Catalog
				for _, id := range args {
					ing, ok := catalog.ByID(cat, id)
					if !ok {
						return fmt.Errorf("unknown ingredient %q", id)
					}
					s.AddIngredient(ing)
				}

				total := store.Select(s, func(st store.State) int { return construction.TotalPrice(st.Construction) })
				r, err := s.Checkout(ctx)
				if err != nil {
					return err
				}
				if err := settled(r, orders.FallbackSubmit); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Order %d accepted: %s (%d)\n", r.Payload.Number, r.Payload.Name, total)
				return nil
			})
		},
	}
}

func (c *cli) ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List the signed-in customer's orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				if !s.State().Session.IsAuthenticated {
					return store.ErrNotAuthenticated
				}
				if err := settled(s.FetchAllOrders(ctx), orders.FallbackFetchAll); err != nil {
					return err
				}
				for _, o := range s.State().Order.AllOrders {
					fmt.Fprintf(cmd.OutOrStdout(), "#%d  %-8s %s\n", o.Number, o.Status, o.Name)
				}
				return nil
			})
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NUMBER",
		Short: "Show an order with its ingredients",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("order number must be numeric: %w", err)
			}
			return c.withStore(cmd, func(ctx context.Context, s *store.Store) error {
				r := s.OpenOrder(ctx, number)
				if err := settled(r, orders.FallbackFetchOne); err != nil {
					return err
				}
				cat := s.State().Catalog
				d := orders.Describe(r.Payload, func(id string) (models.Ingredient, bool) { return catalog.ByID(cat, id) })

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "#%d %s [%s]\n", d.Order.Number, d.Order.Name, d.Order.Status)
				for _, line := range d.Lines {
					fmt.Fprintf(out, "  %d x %-40s %6d\n", line.Count, line.Ingredient.Name, line.Ingredient.Price)
				}
				fmt.Fprintf(out, "  %s\n  total %d\n", strings.Repeat("-", 50), d.Total)
				return nil
			})
		},
	}
}
