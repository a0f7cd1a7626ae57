/*
Package fees computes what a member is charged and what a chapter receives
for a dues payment.

Every charge is split into four values:
- processor fee: what Stripe keeps for moving the money
- platform fee: the GreekPay take-rate, a fixed percentage of the dues amount
- total charge: what the payer is billed
- chapter receives: what lands in the chapter's connected account

Card payments pass the processor fee through to the payer. Stripe takes its
percentage-plus-fixed fee from the gross charge, so the dues amount is marked
up with the closed form

	fee = (amount + fixed) / (1 - percentage) - amount

and the chapter only loses the platform fee. ACH payments are never marked up:
the capped ACH fee and the platform fee both come out of the chapter's net.

Usage:

	calc, err := fees.NewCalculator(fees.DefaultSchedule())
	b, err := calc.Breakdown(100, fees.MethodCard)
	// b.TotalCharge == 103.30, b.ChapterReceives == 99.00

Rates live in a Schedule built from config.FeeConfig, so a renegotiated
processor rate is a configuration change. All arithmetic is decimal and each
returned value is rounded half-up to cents once, at the end.

Error Handling:

- ErrInvalidAmount: negative, NaN or infinite amount
- ErrInvalidMethod: method other than card or us_bank_account
- ErrRoundingOverflow: amount above the schedule's MaxAmount

The formatting helpers never fail: unknown codes and statuses fall back to
their raw value.
*/
package fees
