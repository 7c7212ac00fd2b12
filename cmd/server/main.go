// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/campaign-manager-backend/internal/controller"
	"github.com/unclebandit/campaign-manager-backend/internal/db"
	"github.com/unclebandit/campaign-manager-backend/internal/queue"
	"github.com/unclebandit/campaign-manager-backend/internal/repository"
	"github.com/unclebandit/campaign-manager-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	q := queue.NewInMemoryQueue()
	queue.StartCampaignEventSubscriber(q)

	campaignRepo := &repository.CampaignRepository{DB: db.DB}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		Queue:        q,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
	}

	r := chi.NewRouter()

	// Campaign routes
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns/search", campaignController.SearchCampaigns)
	r.Post("/campaigns/expired-campaigns", campaignController.ExpireCampaigns)
	r.Get("/campaigns/{id}", campaignController.GetCampaign)
	r.Put("/campaigns/{id}", campaignController.UpdateCampaign)
	r.Delete("/campaigns/{id}", campaignController.DeleteCampaign)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
