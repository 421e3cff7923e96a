package cache

import (
	"context"
	"fmt"
)

// Cache key builders for the read-heavy endpoints. The key scheme is small on
// purpose: per-user reservation pages cache only the first page to bound key
// cardinality.

// LotListKey is the cached list of lots with availability counts.
func LotListKey() string {
	return "parking_lots:available"
}

// LotSpotsKey caches the spot listing of one lot.
func LotSpotsKey(lotID uint) string {
	return fmt.Sprintf("lot:%d:spots", lotID)
}

// UserReservationsFirstPageKey caches page 1 of a user's reservation history.
func UserReservationsFirstPageKey(userID uint) string {
	return fmt.Sprintf("user:%d:reservations:first", userID)
}

// UserDashboardKey caches a user's dashboard payload.
func UserDashboardKey(userID uint) string {
	return fmt.Sprintf("user:%d:dashboard", userID)
}

// AdminDashboardKey caches the admin dashboard payload.
func AdminDashboardKey() string {
	return "admin:dashboard"
}

// InvalidateLot drops every cached view that embeds availability for lotID.
func InvalidateLot(ctx context.Context, store Store, lotID uint) {
	_ = store.Delete(ctx, LotListKey())
	_ = store.Delete(ctx, LotSpotsKey(lotID))
	_ = store.Delete(ctx, AdminDashboardKey())
}

// InvalidateUser drops every cached view keyed by userID.
func InvalidateUser(ctx context.Context, store Store, userID uint) {
	_ = store.Delete(ctx, UserReservationsFirstPageKey(userID))
	_ = store.Delete(ctx, UserDashboardKey(userID))
}
