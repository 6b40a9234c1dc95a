// Package handler provides typed HTTP handlers for the JSON APIs.
//
// A handler receives a bound request struct and returns a Response:
//
//	type getShop struct {
//		ID int64 `path:"id"`
//	}
//
//	func (h *API) shop(ctx handler.Context, req getShop) handler.Response {
//		shop, err := h.svc.GetShop(ctx, req.ID)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(shop)
//	}
//
//	r.Get("/shop/{id}", handler.Wrap(h.shop,
//		handler.WithBinders[getShop](binder.Path(chi.URLParam)),
//	))
//
// Every body uses the JSONResponse envelope. Errors are classified by
// Classify: HTTPError values keep their code, validation errors answer 422
// with per-field details, binding errors 400 or 415, missing tenants 404 and
// everything else 500. Domain packages attach a class with HTTPError.Wrap.
package handler
