package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	dom "github.com/kntgio-z/test-repo/internal/domain"
	"github.com/kntgio-z/test-repo/internal/dto"
	"github.com/kntgio-z/test-repo/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles the account CRUD and pressure endpoints.
type AccountHandler struct {
	svc *service.AccountService
}

// NewAccountHandler returns a new AccountHandler.
func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// GetUsername godoc
// @Summary      Get a username by account ID
// @Tags         accounts
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  dto.UsernameResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /username/{id} [get]
func (h *AccountHandler) GetUsername(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	username, err := h.svc.GetUsername(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, dom.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Username with id %d not found.", id)})
			return
		}
		log.Printf("get username: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.UsernameResponse{Username: username})
}

// Pressure godoc
// @Summary      Run N identical username lookups, optionally in parallel
// @Description  Load-tests the database batch path. Every statement selects
// @Description  the same fixed account; results come back in statement order.
// @Tags         accounts
// @Produce      json
// @Param        payload     path   int     true   "Number of queries"
// @Param        isParallel  query  string  false  "Any non-empty value runs the batch in parallel"
// @Success      200  {array}   dto.UsernameResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /pressure/{payload} [get]
func (h *AccountHandler) Pressure(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("payload"))
	if err != nil || count < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid payload!"})
		return
	}
	// Truthiness, not parsing: "isParallel=false" still selects the
	// parallel path, matching how the endpoint has always behaved.
	parallel := c.Query("isParallel") != ""

	list, err := h.svc.Pressure(c.Request.Context(), count, parallel)
	if err != nil {
		if errors.Is(err, dom.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Username with id 1 not found."})
			return
		}
		log.Printf("pressure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.UsernameResponse, len(list))
	for i, u := range list {
		out[i] = dto.UsernameResponse{Username: u}
	}
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateAccountRequest  true  "Credentials"
// @Success      200   {object}  dto.CreateAccountResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /new [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fields username and password are required to make this request."})
		return
	}
	id, err := h.svc.Create(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, dom.ErrDuplicateUsername) {
			c.JSON(http.StatusConflict, gin.H{"error": "Duplicate key error: A user with this username already exists."})
			return
		}
		log.Printf("create account: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.CreateAccountResponse{ID: id})
}

// Update godoc
// @Summary      Edit an account's username and/or password
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UpdateAccountRequest  true  "Partial edit"
// @Success      200   {string}  string  "OK"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /edit [patch]
func (h *AccountHandler) Update(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ID!"})
		return
	}
	err := h.svc.Update(c.Request.Context(), req.ID, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNothingToUpdate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update: supply username and/or password."})
		case errors.Is(err, dom.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Username with id %d not found.", req.ID)})
		case errors.Is(err, dom.ErrSameUsername):
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot change same username."})
		case errors.Is(err, dom.ErrSamePassword):
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot change same password."})
		default:
			log.Printf("update account: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, "OK")
}

// Delete godoc
// @Summary      Delete an account by ID and password
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DeleteAccountRequest  true  "ID and password"
// @Success      200   {string}  string  "OK"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /delete [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	var req dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fields id and password are required to make this request."})
		return
	}
	err := h.svc.Delete(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, dom.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deletion unsuccessful. It is either caused by a non-existing id or wrong password."})
			return
		}
		log.Printf("delete account: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, "OK")
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid ID!"})
		return 0, false
	}
	return id, true
}
