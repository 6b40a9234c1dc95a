package admin

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/servicebond/handler"
	"github.com/dmitrymomot/servicebond/modules/api"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

type handlers struct {
	svc *administration.Service
}

type adminIndex struct {
	Shops       string `json:"shops"`
	Users       string `json:"users"`
	Revisions   string `json:"revisions"`
	Permissions string `json:"permissions"`
}

func (h *handlers) index(_ handler.Context, _ struct{}) handler.Response {
	return handler.JSON(adminIndex{
		Shops:       "/admin/shops",
		Users:       "/admin/users",
		Revisions:   "/admin/revisions",
		Permissions: "/admin/permissions",
	})
}

func (h *handlers) permissions(_ handler.Context, _ struct{}) handler.Response {
	return handler.JSON(administration.PermissionTable())
}

func (h *handlers) listShops(ctx handler.Context, req administration.ListOptions) handler.Response {
	page, err := h.svc.ListShops(ctx, req)
	if err != nil {
		return api.Fail(err)
	}
	return api.Page(page, req)
}

type shopRequest struct {
	ID int64 `path:"id"`
	administration.ShopInput
}

func (h *handlers) createShop(ctx handler.Context, req shopRequest) handler.Response {
	shop, err := h.svc.CreateShop(ctx, req.ShopInput)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(shop, handler.WithJSONStatus(http.StatusCreated))
}

func (h *handlers) getShop(ctx handler.Context, req api.ID) handler.Response {
	shop, err := h.svc.GetShop(ctx, req.ID)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(shop)
}

func (h *handlers) updateShop(ctx handler.Context, req shopRequest) handler.Response {
	shop, err := h.svc.UpdateShop(ctx, req.ID, req.ShopInput)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(shop)
}

type shopCustomersRequest struct {
	ID       int64  `path:"id" query:"-"`
	Search   string `query:"search" path:"-"`
	Ordering string `query:"ordering" path:"-"`
	Limit    int    `query:"limit" path:"-"`
	Offset   int    `query:"offset" path:"-"`
}

func (r shopCustomersRequest) options() administration.ListOptions {
	return administration.ListOptions{Search: r.Search, Ordering: r.Ordering, Limit: r.Limit, Offset: r.Offset}
}

func (h *handlers) listShopCustomers(ctx handler.Context, req shopCustomersRequest) handler.Response {
	opts := req.options()
	page, err := h.svc.ListShopCustomers(ctx, req.ID, opts)
	if err != nil {
		return api.Fail(err)
	}
	return api.Page(page, opts)
}

type userListRequest struct {
	Search   string `query:"search"`
	Ordering string `query:"ordering"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
	Shop     *int64 `query:"shop"`
}

func (h *handlers) listUsers(ctx handler.Context, req userListRequest) handler.Response {
	opts := administration.ListOptions{Search: req.Search, Ordering: req.Ordering, Limit: req.Limit, Offset: req.Offset}
	page, err := h.svc.ListUsers(ctx, administration.UserFilter{ListOptions: opts, ShopID: req.Shop})
	if err != nil {
		return api.Fail(err)
	}
	return api.Page(page, opts)
}

type userRequest struct {
	ID int64 `path:"id"`
	administration.UserInput
}

func (h *handlers) createUser(ctx handler.Context, req userRequest) handler.Response {
	user, err := h.svc.CreateUser(ctx, req.UserInput)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(user, handler.WithJSONStatus(http.StatusCreated))
}

func (h *handlers) getUser(ctx handler.Context, req api.ID) handler.Response {
	user, err := h.svc.GetUser(ctx, req.ID)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(user)
}

func (h *handlers) updateUser(ctx handler.Context, req userRequest) handler.Response {
	user, err := h.svc.UpdateUser(ctx, req.ID, req.UserInput)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(user)
}

func (h *handlers) deleteUser(ctx handler.Context, req api.ID) handler.Response {
	if err := h.svc.DeleteUser(ctx, req.ID); err != nil {
		return api.Fail(err)
	}
	return handler.Empty()
}

func (h *handlers) listRevisions(ctx handler.Context, req administration.RevisionFilter) handler.Response {
	page, err := h.svc.ListRevisions(ctx, req)
	if err != nil {
		return api.Fail(err)
	}
	return api.Page(page, administration.ListOptions{Limit: req.Limit, Offset: req.Offset})
}

type userCanRequest struct {
	ID       int64                 `path:"id"`
	Resource string                `query:"resource"`
	Action   administration.Action `query:"action"`
	ShopID   *int64                `query:"shop"`
}

type userCanResponse struct {
	Allowed  bool                `json:"allowed"`
	Required administration.Tier `json:"required,omitempty"`
}

func (h *handlers) userCan(ctx handler.Context, req userCanRequest) handler.Response {
	err := h.svc.CheckPermission(ctx, req.ID, req.ShopID, req.Resource, req.Action)
	if err != nil && !errors.Is(err, administration.ErrForbidden) {
		return api.Fail(err)
	}
	required := administration.Permissions[administration.Permission{Resource: req.Resource, Action: req.Action}]
	return handler.JSON(userCanResponse{Allowed: err == nil, Required: required})
}
