package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kantine-app/kantine/internal/httpx"
	"github.com/kantine-app/kantine/internal/menu"
	"github.com/kantine-app/kantine/internal/order"
	"github.com/kantine-app/kantine/internal/user"
)

// listFoodsHandler serves the menu for ordering. Any menu trouble degrades
// to an empty list so the frontend keeps rendering.
func listFoodsHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.List(c.Request.Context())
		if err != nil {
			log.Printf("[menu] list failed: %v", err)
			c.JSON(http.StatusOK, []menu.Item{})
			return
		}
		if items == nil {
			items = []menu.Item{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// menuFromFileHandler is the strict variant: missing file and broken schema
// surface as errors instead of an empty list.
func menuFromFileHandler(repo menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.List(c.Request.Context())
		switch {
		case errors.Is(err, menu.ErrNotFound):
			httpx.Error(c, http.StatusNotFound, "menu file not found")
		case errors.Is(err, menu.ErrBadSchema):
			httpx.Error(c, http.StatusInternalServerError, err.Error())
		case err != nil:
			httpx.Error(c, http.StatusInternalServerError, err.Error())
		default:
			if items == nil {
				items = []menu.Item{}
			}
			c.JSON(http.StatusOK, items)
		}
	}
}

func listUsersHandler(users user.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := users.List(c.Request.Context())
		if err != nil {
			log.Printf("[users] list failed: %v", err)
			accounts = nil
		}
		if accounts == nil {
			accounts = []user.Account{}
		}
		c.JSON(http.StatusOK, gin.H{"users": accounts})
	}
}

func addUserHandler(users user.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		acct, err := users.Add(c.Request.Context(), req.Name)
		if errors.Is(err, user.ErrEmptyName) {
			httpx.Error(c, http.StatusBadRequest, "name is required")
			return
		}
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusCreated, acct)
	}
}

func saveOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.SaveOrdersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		userID, ok := order.AsInt(req.UserID)
		if !ok || userID <= 0 || len(req.Items) == 0 {
			httpx.Error(c, http.StatusBadRequest, "missing required parameters")
			return
		}
		reqs := make([]order.Request, 0, len(req.Items))
		for _, it := range req.Items {
			reqs = append(reqs, it.Request())
		}
		total, err := svc.SaveBatch(c.Request.Context(), userID, reqs)
		if errors.Is(err, order.ErrNoValidItems) {
			httpx.Error(c, http.StatusBadRequest, "no valid order items")
			return
		}
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "total_price": total})
	}
}

func allOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.AllOrders(c.Request.Context())
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "unable to read order data")
			return
		}
		if res == nil {
			res = []order.UserOrders{}
		}
		c.JSON(http.StatusOK, gin.H{"users": res})
	}
}

func userOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid user id")
			return
		}
		items, total, err := svc.UserOrders(c.Request.Context(), userID)
		if err != nil {
			httpx.Error(c, http.StatusInternalServerError, "unable to read order data")
			return
		}
		if items == nil {
			items = []order.LineView{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": items, "total": total})
	}
}

func editOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.EditOrdersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Error(c, http.StatusBadRequest, "invalid json")
			return
		}
		userID, ok := order.AsInt(req.UserID)
		if !ok || userID <= 0 || len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "missing required parameters"})
			return
		}
		reqs := make([]order.Request, 0, len(req.Items))
		for _, it := range req.Items {
			reqs = append(reqs, it.Request())
		}
		_, err := svc.EditBatch(c.Request.Context(), userID, reqs)
		switch {
		case errors.Is(err, order.ErrNoOrders):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "no orders found for user"})
		case errors.Is(err, order.ErrNoChanges):
			c.JSON(http.StatusOK, gin.H{"status": "info", "message": "no changes applied"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"status": "success", "message": "orders updated"})
		}
	}
}

func updateOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateOrdersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid json"})
			return
		}
		if len(req.Changes) == 0 {
			c.JSON(http.StatusOK, gin.H{"status": "success", "message": "no changes"})
			return
		}
		changes := make([]order.Change, 0, len(req.Changes))
		for _, ch := range req.Changes {
			changes = append(changes, ch.Change())
		}
		rows, err := svc.UpdateOrders(c.Request.Context(), changes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "updated_rows": rows})
	}
}
