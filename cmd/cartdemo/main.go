// cartdemo wires two store contexts against one substrate and runs a
// scripted storefront flow, showing every mutation in one context arriving
// in the other.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stpauli98/CandleShop-sub000/internal/cart"
	"github.com/stpauli98/CandleShop-sub000/internal/catalog"
	"github.com/stpauli98/CandleShop-sub000/internal/checkout"
	"github.com/stpauli98/CandleShop-sub000/internal/domain"
	"github.com/stpauli98/CandleShop-sub000/internal/keystore"
	"github.com/stpauli98/CandleShop-sub000/pkg/config"
	"github.com/stpauli98/CandleShop-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.New(logger.Options{
		Service: "cartdemo",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx := context.Background()

	var sub keystore.Substrate
	var bus keystore.Bus
	switch cfg.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		logg.Info("using redis store", "addr", cfg.RedisAddr)

		redisBus := keystore.NewRedisBus(client, "")
		defer redisBus.Close()
		sub = keystore.NewRedisSubstrate(client, "")
		bus = redisBus
	default:
		logg.Info("using in-memory store")
		sub = keystore.NewMemorySubstrate()
		bus = keystore.NewMemoryBus()
	}

	tabA := keystore.NewContext("tab-a", sub, bus, logg)
	tabB := keystore.NewContext("tab-b", sub, bus, logg)
	defer tabA.Close()
	defer tabB.Close()

	cartA := cart.NewEngine(tabA, logg)
	cartB := cart.NewEngine(tabB, logg)
	cartB.OnChange(func(lines []domain.CartLine) {
		logg.Info("tab-b observed cart change", "items", cart.ItemCount(lines), "total", cart.Total(lines))
	})

	shop := catalog.NewCachedCatalog(catalog.NewMemoryCatalog(
		domain.Product{ID: "svijeca-lavanda", Name: "Lavanda", Price: "12.50", Available: true, Scents: []string{"lavanda"}},
		domain.Product{ID: "svijeca-vanilija", Name: "Vanilija", Price: "14.00", DiscountPrice: "11.20", Discount: 20, Available: true},
		domain.Product{ID: "svijeca-bor", Name: "Bor", Price: "9.90", Available: false},
	), 0, logg)

	lavanda, err := shop.GetProduct(ctx, "svijeca-lavanda")
	if err != nil {
		log.Fatalf("Failed to load product: %v", err)
	}
	vanilija, err := shop.GetProduct(ctx, "svijeca-vanilija")
	if err != nil {
		log.Fatalf("Failed to load product: %v", err)
	}

	cartA.AddToCart(*lavanda, domain.VariantSelection{Scent: "lavanda"})
	cartA.AddToCart(*lavanda, domain.VariantSelection{Scent: "lavanda"})
	cartA.AddToCart(*vanilija, domain.VariantSelection{})
	cartA.UpdateQuantity("svijeca-vanilija", 3, domain.VariantSelection{})

	// Give an asynchronous bus time to converge before comparing.
	time.Sleep(100 * time.Millisecond)
	logg.Info("carts after tab-a mutations",
		"tab_a_total", cartA.Total(), "tab_b_total", cartB.Total(),
		"tab_a_items", cartA.ItemCount(), "tab_b_items", cartB.ItemCount(),
	)

	svc := checkout.NewService(consoleOrders{logg: logg}, cartB, logg)
	orderID, err := svc.Submit(ctx, checkout.SubmitRequest{
		PaymentMethod: "pouzecem",
		CustomerEmail: "kupac@example.com",
		ShippingInfo: checkout.ShippingInfo{
			FullName:   "Ana Anic",
			Address:    "Ilica 1",
			City:       "Zagreb",
			PostalCode: "10000",
			Country:    "Hrvatska",
		},
	})
	if err != nil {
		log.Fatalf("Checkout failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	logg.Info("checkout complete", "order_id", orderID,
		"tab_a_items", cartA.ItemCount(), "tab_b_items", cartB.ItemCount(),
	)
}

// consoleOrders stands in for the hosted order-creation collaborator.
type consoleOrders struct {
	logg *slog.Logger
}

func (c consoleOrders) CreateOrder(_ context.Context, order *checkout.Order) (string, error) {
	c.logg.Info("order received",
		"order_number", order.OrderNumber,
		"lines", len(order.Items),
		"total", fmt.Sprintf("%.2f", order.Total),
		"shipping", fmt.Sprintf("%.2f", order.ShippingCost),
	)
	return uuid.New().String(), nil
}
