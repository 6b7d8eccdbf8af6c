package handlers

import (
	"errors"
	"fmt"
	"log"

	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/studyhive/study_hive/configs"
	"github.com/studyhive/study_hive/database"
	"github.com/studyhive/study_hive/models"
	"github.com/studyhive/study_hive/websocket"
)

// ServeWs registers a client for review-workflow events. The first frame
// must be {"type":"auth","token":"..."}; the stored role decides whether
// the client sees submission events (admins) or decision events (tutors).
func ServeWs(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	email, _ := claims["email"].(string)
	if email == "" {
		_ = c.WriteJSON(fiber.Map{"error": "Token has no email claim"})
		c.Close()
		return
	}

	user, denial := resolveWsUser(email)
	if user == nil {
		_ = c.WriteJSON(fiber.Map{"error": denial})
		c.Close()
		return
	}

	client := &websocket.Client{Email: user.Email, Role: user.Role, Conn: c}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		c.Close()
	}()

	// Events flow one way; the read loop only detects the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for client %s: %v", user.Email, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", user.Email, err)
			}
			break
		}
	}
}

// resolveWsUser loads the account behind a verified token. A missing
// account and a store outage are reported differently so a client does
// not retry a dead login during an outage.
func resolveWsUser(email string) (*models.User, string) {
	ctx, cancel := database.OpCtx()
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "Unknown user"
	}
	if err != nil {
		log.Printf("🔥 Failed to verify websocket user %s: %v", email, err)
		return nil, "Failed to verify user"
	}
	return &user, ""
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
