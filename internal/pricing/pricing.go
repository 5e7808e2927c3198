// Package pricing computes cart totals and coupon discounts.
package pricing

import (
	"math"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

// ComputeTotal sums quantity * snapshotted unit price over the cart's
// items, writes the result onto the cart and clears any discounted total.
// A discount is only meaningful for the contents it was computed against,
// so every recomputation invalidates it.
func ComputeTotal(cart *domain.Cart) float64 {
	var total float64
	for _, item := range cart.Items {
		total += float64(item.Quantity) * item.Price
	}
	cart.TotalPrice = total
	cart.TotalAfterDiscount = nil
	return total
}

// ApplyDiscount stores total - round2(total * percent / 100) on the cart
// and returns it. Rounding is applied to the subtracted amount only, not
// to the final result.
func ApplyDiscount(cart *domain.Cart, percent float64) float64 {
	discounted := cart.TotalPrice - round2(cart.TotalPrice*percent/100)
	cart.TotalAfterDiscount = &discounted
	return discounted
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
