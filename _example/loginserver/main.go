// Command loginserver is a minimal HTTP login endpoint on top of the
// authchain library: POST /login authenticates the submitted credentials
// and then asks every authorisation listener for a verdict.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-authgate/authchain"
	"github.com/go-authgate/authchain/config"
	"github.com/go-authgate/authchain/core"
	"github.com/go-authgate/authchain/store"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Status   string `json:"status"`
	Type     string `json:"type,omitempty"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Message  string `json:"message,omitempty"`
}

func main() {
	ctx := context.Background()

	cfg := config.Load()
	chain, err := authchain.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize auth chain: %v", err)
	}
	defer chain.Close()

	// Demo account so the endpoint works out of the box.
	hash, err := store.HashPassword("demo-password")
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}
	if err := chain.Store.CreateUser(ctx, &store.User{
		Username:     "demo",
		FullName:     "Demo User",
		PasswordHash: hash,
	}); err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}

	r := gin.Default()
	r.POST("/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		creds := core.Credentials{
			"username": req.Username,
			"password": req.Password,
		}
		resp, err := chain.Authenticate(c.Request.Context(), creds, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication backend failed"})
			return
		}

		out := loginResponse{
			Status:   resp.Status.String(),
			Type:     resp.Type,
			Username: resp.Username,
			FullName: resp.FullName,
			Message:  resp.Message,
		}
		if resp.Status != core.StatusSuccess {
			c.JSON(http.StatusUnauthorized, out)
			return
		}

		// A denial or expiry from any authorisation listener vetoes the
		// login even though authentication succeeded.
		for _, result := range chain.Authorise(c.Request.Context(), resp, nil) {
			verdict, ok := result.Value.(*core.Response)
			if !ok || result.Err != nil {
				continue
			}
			if verdict.Status.PreventsLogin() {
				out.Status = verdict.Status.String()
				out.Message = verdict.Message
				c.JSON(http.StatusForbidden, out)
				return
			}
		}

		c.JSON(http.StatusOK, out)
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
