package main

import (
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/squadlabs/zkconnect/adapters/enoki"
	"github.com/squadlabs/zkconnect/adapters/events"
	"github.com/squadlabs/zkconnect/adapters/keystore"
	"github.com/squadlabs/zkconnect/adapters/store"
	"github.com/squadlabs/zkconnect/adapters/sui"
	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/service"
	"github.com/squadlabs/zkconnect/transport/http"
)

func main() {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	if clientID == "" {
		log.Fatal("GOOGLE_CLIENT_ID environment variable not set")
	}
	apiKey := os.Getenv("ENOKI_API_KEY")
	if apiKey == "" {
		log.Fatal("ENOKI_API_KEY environment variable not set")
	}

	network := core.ParseNetwork(os.Getenv("ZKCONNECT_NETWORK"))

	keystorePath := os.Getenv("KEYSTORE_PATH")
	if keystorePath == "" {
		keystorePath = "./keystore"
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":3000"
	}
	redirectURL := os.Getenv("REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = "http://localhost:3000/callback"
	}

	prover := enoki.New(enoki.Config{
		APIKey:  apiKey,
		Network: network,
	})
	node := sui.New(network, nil)

	opts := []service.Option{}

	// Redis is optional: without it params stay in-process and no events
	// are published.
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(redisOpts)

		logger := watermill.NewStdLogger(false, false)
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}

		opts = append(opts,
			service.WithParamStore(store.NewRedisStore(redisClient)),
			service.WithEventPublisher(events.NewWatermillPublisher(publisher)),
		)
	}

	svc := service.NewZkLoginService(network, clientID, node, prover, prover, keystore.Opener{}, opts...)

	router := http.SetupRouter(svc, keystorePath, redirectURL)

	log.Printf("zkconnect demo listening on %s (network %s)", listenAddr, network)
	if err := router.Run(listenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
