// Package subpath routes a request to one of several routing tables based on
// its first path segment, and mounts a per-shop table under /shop/<id>/.
//
// # Tables
//
// A Table is an ordered list of regular-expression rules matched against the
// path without its leading slash. Prefix rules consume what they match and
// hand the rest to their handler, so a chi router can live under `^admin/`.
//
// # Tenant templates
//
// A Template describes the shop sub-site once, with "0" standing for the shop
// id:
//
//	tpl := subpath.MustTemplate("shop", subpath.DefaultLiteral, subpath.DefaultPlaceholder,
//		subpath.Rule{Pattern: `^shop/0/admin/`, Prefix: true, Handler: adminRouter},
//		subpath.Rule{Pattern: `^shop/0/$`, Handler: index},
//	)
//
// Specialize(42) returns a fresh table whose patterns read `^shop/42/admin/`
// and `^shop/42/$`. TableCache keeps one such table per shop.
//
// # Dispatch
//
// Dispatcher classifies every request:
//
//	/shop/<id>/...   TenantResolved or TenantUnresolved
//	/<static>/...    KnownSubspace
//	anything else    NoSubspace
//
// It binds the shop with tenant.WithTenant only for TenantResolved and calls
// tenant.Clear in every other case. The decision is stored as a Route in the
// request context. Router serves the installed table and falls back to the
// default handler otherwise:
//
//	d := subpath.New(resolver, subpath.NewTableCache(tpl),
//		subpath.WithStaticSubspace("admin", adminTable),
//	)
//	handler := d.Middleware(subpath.Router(defaultRouter))
//
// Unknown and malformed shop ids answer 404 by default. WithFailClosed(false)
// sends them to the default router instead, with no tenant in the context.
package subpath
