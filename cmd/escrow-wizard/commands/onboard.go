package commands

import (
	"fmt"

	"escrow-wizard/internal/models"
	"escrow-wizard/internal/onboarding"
	"escrow-wizard/internal/render"

	"github.com/spf13/cobra"
)

type onboardOutput struct {
	Status   models.StatusVariant   `json:"status"`
	Identity models.IdentityDetails `json:"identity"`
	Address  models.AddressDetails  `json:"address"`
	Business models.BusinessDetails `json:"business"`
	Bank     models.BankDetails     `json:"bank"`
}

// onboard: run KYC/KYB verification from flags.
func onboardCmd(a *app) *cobra.Command {
	var (
		pan, aadhaar           string
		address                models.AddressDetails
		company                bool
		companyPAN, gstin, cin string
		holder, account, ifsc  string
	)

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Complete identity, address, business and bank verification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			w, err := onboarding.New(a.cfg.Onboarding, a.reg, a.log, onboarding.WithObservability(a.obs))
			if err != nil {
				return err
			}
			defer w.Close()

			steps := []struct {
				op  string
				run func() error
			}{
				{"verify_pan", func() error { return w.VerifyPAN(ctx, pan) }},
				{"verify_aadhaar", func() error { return w.VerifyAadhaar(ctx, aadhaar) }},
				{"next", func() error { return w.Next(ctx) }},
				{"set_address", func() error { return w.SetAddress(address) }},
				{"next", func() error { return w.Next(ctx) }},
				{"choose", func() error {
					if !company {
						return w.ChooseIndividual()
					}
					if err := w.ChooseCompany(); err != nil {
						return err
					}
					if err := w.SetCompanyDetails(companyPAN, gstin, cin); err != nil {
						return err
					}
					return w.VerifyCompany(ctx)
				}},
				{"next", func() error { return w.Next(ctx) }},
				{"set_bank", func() error {
					return w.SetBank(models.BankDetails{
						AccountHolder:        holder,
						AccountNumber:        account,
						ConfirmAccountNumber: account,
						IFSC:                 ifsc,
					})
				}},
				{"verify_bank", func() error { return w.VerifyBank(ctx) }},
				{"complete", func() error { return w.Complete(ctx) }},
			}

			for _, s := range steps {
				if err := s.run(); err != nil {
					if a.format == render.FormatText {
						fmt.Fprintln(a.out, render.Steps(a.styles, w.Progress()))
					}
					return a.reject(s.op, err)
				}
			}

			out := onboardOutput{
				Status:   w.Status(),
				Identity: w.Identity(),
				Address:  w.Address(),
				Business: w.Business(),
				Bank:     w.Bank(),
			}
			text := render.Steps(a.styles, w.Progress()) + "\n" + render.Badge(out.Status, "Verification complete")
			return a.emit(text, out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&pan, "pan", "", "PAN number, e.g. ABCDE1234F")
	f.StringVar(&aadhaar, "aadhaar", "", "12-digit Aadhaar number")
	f.StringVar(&address.Line1, "line1", "", "address line 1")
	f.StringVar(&address.Line2, "line2", "", "address line 2")
	f.StringVar(&address.City, "city", "", "city")
	f.StringVar(&address.State, "state", "", "state")
	f.StringVar(&address.PINCode, "pin", "", "6-digit PIN code")
	f.BoolVar(&company, "company", false, "register as a company (KYB)")
	f.StringVar(&companyPAN, "company-pan", "", "company PAN")
	f.StringVar(&gstin, "gstin", "", "GST number")
	f.StringVar(&cin, "cin", "", "corporate identification number")
	f.StringVar(&holder, "account-holder", "", "account holder name")
	f.StringVar(&account, "account-number", "", "bank account number")
	f.StringVar(&ifsc, "ifsc", "", "IFSC code")
	return cmd
}
