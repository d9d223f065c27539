package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visionaryvybes/Archi-sub000/internal/shared/types"
)

// ListCollections lists collections in creation order
func (h *Handlers) ListCollections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"collections": h.store.Collections()})
}

// CreateCollection appends an empty collection
func (h *Handlers) CreateCollection(c *gin.Context) {
	var req types.CollectionRequest
	if !h.bind(c, &req) {
		return
	}

	collection, err := h.store.CreateCollection(h.sanitize(req.Name))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, collection)
}

// DeleteCollection removes a collection; its renders are kept
func (h *Handlers) DeleteCollection(c *gin.Context) {
	collectionID := c.Param("id")
	if !h.store.DeleteCollection(collectionID) {
		notFound(c, "collection", collectionID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "collectionId": collectionID})
}

// AddToCollection appends a render ID to a collection
func (h *Handlers) AddToCollection(c *gin.Context) {
	var req types.CollectionMemberRequest
	if !h.bind(c, &req) {
		return
	}

	collectionID := c.Param("id")
	if !h.store.AddToCollection(collectionID, req.RenderID) {
		notFound(c, "collection", collectionID)
		return
	}
	collection, _ := h.store.Collection(collectionID)
	c.JSON(http.StatusOK, collection)
}

// CollectionMember reports whether a render is saved in a collection
func (h *Handlers) CollectionMember(c *gin.Context) {
	collectionID, renderID := c.Param("id"), c.Param("renderId")
	collection, ok := h.store.Collection(collectionID)
	if !ok {
		notFound(c, "collection", collectionID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"collectionId": collectionID,
		"renderId":     renderID,
		"saved":        collection.Contains(renderID),
	})
}

// RemoveFromCollection removes every occurrence of a render ID
func (h *Handlers) RemoveFromCollection(c *gin.Context) {
	collectionID := c.Param("id")
	if !h.store.RemoveFromCollection(collectionID, c.Param("renderId")) {
		notFound(c, "collection", collectionID)
		return
	}
	collection, _ := h.store.Collection(collectionID)
	c.JSON(http.StatusOK, collection)
}
