package shop

import (
	"net/http"

	"github.com/dmitrymomot/servicebond/handler"
	"github.com/dmitrymomot/servicebond/modules/api"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

type handlers struct {
	svc *administration.Service
}

func (h *handlers) myShop(ctx handler.Context, _ struct{}) handler.Response {
	shop, err := h.svc.CurrentShop(ctx)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(shop)
}

type shopRequest struct {
	administration.ShopInput
}

func (h *handlers) updateMyShop(ctx handler.Context, req shopRequest) handler.Response {
	shop, err := h.svc.UpdateCurrentShop(ctx, req.ShopInput)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(shop)
}

func (h *handlers) listCustomers(ctx handler.Context, req administration.ListOptions) handler.Response {
	page, err := h.svc.ListCustomers(ctx, req)
	if err != nil {
		return api.Fail(err)
	}
	return api.Page(page, req)
}

type customerRequest struct {
	ID int64 `path:"id"`
	administration.CustomerInput
}

func (h *handlers) createCustomer(ctx handler.Context, req customerRequest) handler.Response {
	c, err := h.svc.CreateCustomer(ctx, req.CustomerInput)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(c, handler.WithJSONStatus(http.StatusCreated))
}

func (h *handlers) getCustomer(ctx handler.Context, req api.ID) handler.Response {
	c, err := h.svc.GetCustomer(ctx, req.ID)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(c)
}

func (h *handlers) updateCustomer(ctx handler.Context, req customerRequest) handler.Response {
	c, err := h.svc.UpdateCustomer(ctx, req.ID, req.CustomerInput)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(c)
}

func (h *handlers) deleteCustomer(ctx handler.Context, req api.ID) handler.Response {
	if err := h.svc.DeleteCustomer(ctx, req.ID); err != nil {
		return api.Fail(err)
	}
	return handler.Empty()
}

func (h *handlers) listUsers(ctx handler.Context, req administration.ListOptions) handler.Response {
	page, err := h.svc.ListShopUsers(ctx, req)
	if err != nil {
		return api.Fail(err)
	}
	return api.Page(page, req)
}

type userRequest struct {
	administration.UserInput
}

func (h *handlers) createUser(ctx handler.Context, req userRequest) handler.Response {
	user, err := h.svc.CreateShopUser(ctx, req.UserInput)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(user, handler.WithJSONStatus(http.StatusCreated))
}
