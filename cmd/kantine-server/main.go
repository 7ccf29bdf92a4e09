package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kantine-app/kantine/internal/config"
	"github.com/kantine-app/kantine/internal/httpx"
	"github.com/kantine-app/kantine/internal/menu"
	"github.com/kantine-app/kantine/internal/order"
	"github.com/kantine-app/kantine/internal/user"
	"github.com/kantine-app/kantine/internal/workbook"
)

func main() {
	// prices and totals go out as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()

	ordersBook := workbook.New(cfg.OrdersPath)
	menuBook := workbook.New(cfg.MenuPath)

	menuRepo := menu.NewWorkbookRepo(menuBook)
	users := user.NewWorkbookDirectory(ordersBook)
	svc := order.NewService(order.NewWorkbookRepo(ordersBook), menuRepo, cfg.UsersCSV)

	if err := svc.FixStructure(context.Background()); err != nil {
		log.Printf("[startup] initial workbook repair failed: %v", err)
	}

	r := newRouter(svc, menuRepo, users)
	log.Printf("kantine-server listening on %s", cfg.Addr)
	log.Fatal(r.Run(cfg.Addr))
}

func newRouter(svc *order.Service, menuRepo menu.Repository, users user.Directory) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	r.GET("/api/foods", listFoodsHandler(menuRepo))
	r.GET("/api/menu-from-file", menuFromFileHandler(menuRepo))
	r.GET("/api/users", listUsersHandler(users))
	r.POST("/api/add-user", addUserHandler(users))
	r.POST("/api/orders", saveOrdersHandler(svc))
	r.GET("/api/all-orders", allOrdersHandler(svc))
	r.GET("/api/user-orders/:id", userOrdersHandler(svc))
	r.POST("/api/edit-orders", editOrdersHandler(svc))
	r.POST("/api/update-orders", updateOrdersHandler(svc))

	return r
}
