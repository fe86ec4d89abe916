package main

import (
	"fmt"
	"log"
	"market-api/authentication"
	"market-api/database"
	"market-api/environment"
	"market-api/jobs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	router = gin.Default()
)

func init() {
	// Load Config
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	// Connect to main database here (mongoDB)
	err := database.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseConnection()

	// connect to JWT Store (redis)
	err = authentication.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer authentication.CloseConnection()

	// connect to the view cache (redis)
	err = database.OpenRedisConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseRedisConnection()

	// connect to the analytics store (influxDB)
	err = database.OpenInfluxConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseInfluxConnection()

	// Initialize the Models
	environment.InitializeModels()

	// background jobs (archive sweep, counter rebuilds, view flush, ...)
	runner := jobs.NewRunner(environment.Env)
	err = runner.Start()
	if err != nil {
		log.Fatal(err)
	}
	defer runner.Stop()

	fmt.Println("Market-API running...")
	handleRequests()
}
