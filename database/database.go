package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	config "github.com/studyhive/study_hive/configs"
	"github.com/studyhive/study_hive/models"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

const opTimeout = 10 * time.Second

// OpCtx bounds a single store round-trip. A slow store call fails the
// request instead of stalling it indefinitely.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func ConnectDB() {
	uri := config.Config("MONGODB_URI")

	ctx, cancel := OpCtx()
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("🔥 Failed to ping database: %v", err)
	}

	Client = client
	DB = client.Database(config.ConfigOr("DB_NAME", "studyHive"))

	fmt.Println("✅ Database connected successfully")
}

// Disconnect is the guaranteed release path for the shared client,
// called from the shutdown hook in main.
func Disconnect() {
	if Client == nil {
		return
	}
	ctx, cancel := OpCtx()
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("🔥 Failed to disconnect from database: %v", err)
		return
	}
	log.Println("✅ Database connection closed")
}

func Users() *mongo.Collection      { return DB.Collection("users") }
func Sessions() *mongo.Collection   { return DB.Collection("tutors") }
func Materials() *mongo.Collection  { return DB.Collection("materials") }
func Bookings() *mongo.Collection   { return DB.Collection("bookings") }
func Reviews() *mongo.Collection    { return DB.Collection("reviews") }
func Notes() *mongo.Collection      { return DB.Collection("notes") }
func Rejections() *mongo.Collection { return DB.Collection("rejections") }

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️ Admin seed skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return
	}

	ctx, cancel := OpCtx()
	defer cancel()

	count, err := Users().CountDocuments(ctx, bson.M{"email": adminEmail})
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
	}
	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
	}

	adminUser := models.User{
		Name:      config.ConfigOr("ADMIN_NAME", "studyHive Admin"),
		Email:     adminEmail,
		Role:      models.RoleAdmin,
		Password:  string(hashedPassword),
		CreatedAt: time.Now(),
	}

	if _, err := Users().InsertOne(ctx, adminUser); err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
	}

	log.Println("✅ Admin user seeded successfully")
}
