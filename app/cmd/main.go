package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"supportagent/app/server"
	"supportagent/config"
)

func init() {
	loadEnvVariables()
}

func main() {
	s := server.NewServer(config.Load())

	go func() {
		if err := s.Run(); err != nil {
			log.Fatal("server error: ", err)
		}
	}()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Println("Received shutdown signal, shutting down server...")
	s.Stop()
}

func loadEnvVariables() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}
