package commands

import (
	"fmt"
	"strings"

	"escrow-wizard/internal/escrow"
	"escrow-wizard/internal/models"
	"escrow-wizard/internal/render"

	"github.com/spf13/cobra"
)

type createOutput struct {
	Review  escrow.Review         `json:"review"`
	Payment *models.PaymentResult `json:"payment,omitempty"`
}

// create: fill the escrow wizard from flags, review and fund it.
func createCmd(a *app) *cobra.Command {
	var (
		details    models.ServiceDetails
		milestones []string
		method     string
		upiID      string
		noFund     bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an escrow transaction and fund it",
		Example: `  escrow-wizard create --title "E-commerce Website" --category "Software Development" \
    --milestone "Initial Design:25000" --milestone "Development:35000:Build the storefront" \
    --method upi --upi-id yourname@upi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			specs, err := parseMilestones(milestones)
			if err != nil {
				return err
			}

			w, err := escrow.New(a.cfg.Escrow, a.reg, a.log, escrow.WithObservability(a.obs))
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.SetDetails(details); err != nil {
				return a.reject("set_details", err)
			}
			if err := applyMilestones(w, specs); err != nil {
				return a.reject("milestones", err)
			}

			for w.Step() != escrow.StepFundEscrow {
				if err := w.Next(ctx); err != nil {
					if a.format == render.FormatText {
						fmt.Fprintln(a.out, render.Steps(a.styles, w.Progress()))
					}
					return a.reject("next", err)
				}
			}

			out := createOutput{Review: w.Review()}
			if a.format == render.FormatText {
				fmt.Fprintln(a.out, render.Steps(a.styles, w.Progress()))
				fmt.Fprintln(a.out, render.Review(a.styles, out.Review))
			}
			if noFund {
				return a.emit("", out)
			}

			pending, err := w.Fund(ctx, models.PaymentMethod(method), upiID)
			if err != nil {
				return a.reject("fund", err)
			}
			if a.format == render.FormatText {
				fmt.Fprintln(a.out, render.Payment(a.styles, a.cfg.Escrow.Currency, models.PaymentResult{}, models.PaymentProcessing))
			}

			result, err := pending.Wait(ctx)
			if err != nil {
				return a.reject("fund", err)
			}
			out.Payment = &result
			return a.emit(render.Payment(a.styles, a.cfg.Escrow.Currency, result, result.Status), out)
		},
	}

	cmd.Flags().StringVar(&details.Title, "title", "", "project title")
	cmd.Flags().StringVar(&details.Description, "description", "", "project description")
	cmd.Flags().StringVar(&details.Category, "category", "", "service category")
	cmd.Flags().StringVar(&details.Deadline, "deadline", "", "expected deadline, YYYY-MM-DD")
	cmd.Flags().StringArrayVar(&milestones, "milestone", nil, `milestone as "Title:Amount[:Description]", repeatable`)
	cmd.Flags().StringVar(&method, "method", string(models.MethodUPI), "payment method: upi, netbanking or card")
	cmd.Flags().StringVar(&upiID, "upi-id", "", "UPI id for upi payments")
	cmd.Flags().BoolVar(&noFund, "no-fund", false, "stop at the review step")
	return cmd
}

type milestoneSpec struct {
	title, amount, description string
}

func parseMilestones(raw []string) ([]milestoneSpec, error) {
	specs := make([]milestoneSpec, 0, len(raw))
	for _, r := range raw {
		parts := strings.SplitN(r, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("milestone %q: want Title:Amount[:Description]", r)
		}
		spec := milestoneSpec{
			title:  strings.TrimSpace(parts[0]),
			amount: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			spec.description = strings.TrimSpace(parts[2])
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// applyMilestones replaces the seeded milestone list with specs. The first
// entry edits the seed so the ledger is never empty.
func applyMilestones(w *escrow.Wizard, specs []milestoneSpec) error {
	if len(specs) == 0 {
		return nil
	}
	seed := w.Milestones()
	for i, spec := range specs {
		var id string
		if i < len(seed) {
			id = seed[i].ID
		} else {
			m, err := w.AddMilestone()
			if err != nil {
				return err
			}
			id = m.ID
		}

		if err := w.UpdateMilestone(id, models.FieldTitle, spec.title); err != nil {
			return err
		}
		if err := w.UpdateMilestone(id, models.FieldAmount, spec.amount); err != nil {
			return err
		}
		if err := w.UpdateMilestone(id, models.FieldDescription, spec.description); err != nil {
			return err
		}
	}
	for _, m := range seed[min(len(specs), len(seed)):] {
		if err := w.RemoveMilestone(m.ID); err != nil {
			return err
		}
	}
	return nil
}
