package main

import (
	"time"

	"resto-orders/config"
	httpapi "resto-orders/internal/api/http"
	"resto-orders/internal/service"
	"resto-orders/internal/storage"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter("orders")
	defer kafkaWriter.Close()

	repository := storage.NewPostgresRepository(db)
	cache := storage.NewUserCache(rdb, 24*time.Hour)
	publisher := storage.NewKafkaPublisher(kafkaWriter)

	orders := service.NewOrderService(repository, repository, publisher, service.DefaultQRGenerator{})
	history := service.NewHistoryService(repository, repository, cache)
	tickets := service.NewTicketService(repository, publisher)

	handler := httpapi.NewHandler(orders, history, tickets)
	httpapi.StartServer(":"+config.Port("8080"), httpapi.NewRouter(handler))
}
