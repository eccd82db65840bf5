package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/saeidalz13/battleship-board/api"
	"github.com/saeidalz13/battleship-board/db"
	"github.com/saeidalz13/battleship-board/db/sqlc"
	"github.com/saeidalz13/battleship-board/internal/config"
	mc "github.com/saeidalz13/battleship-board/models/connection"
	"github.com/saeidalz13/battleship-board/models/layout"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		panic(err)
	}

	// Analytics are optional; without a database the server still runs
	var queries sqlc.Querier
	if env.DatabaseURL != "" {
		queries = sqlc.New(db.MustConnectToDb(env.DatabaseURL))
	} else {
		log.Println("DATABASE_URL not set, analytics disabled")
	}

	boardConfig := config.DefaultBoardConfig()
	if env.BoardConfigPath != "" {
		loaded, err := config.LoadBoardConfig(env.BoardConfigPath)
		if err != nil {
			panic(err)
		}
		boardConfig = *loaded
	}

	botLayout := layout.Default()
	if env.BotLayoutPath != "" {
		if botLayout, err = layout.Load(env.BotLayoutPath); err != nil {
			panic(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionManager := mc.NewBattleshipSessionManager()
	go sessionManager.CleanupPeriodically(ctx)

	rp := api.NewRequestProcessor(sessionManager, queries, &boardConfig, botLayout)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	log.Printf("Listening to port %d (stage: %s)\n", env.Port, env.Stage)
	log.Fatalln(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", env.Port), mux))
}
