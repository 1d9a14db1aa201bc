package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goatnetwork/node-bridge/internal/db"
	"github.com/goatnetwork/node-bridge/internal/node"
)

func (s *HTTPServer) nodeResponse(n *db.Node) NodeResponse {
	resp := NodeResponse{
		ID:       n.ID,
		Label:    n.Label,
		Scheme:   n.Scheme,
		IsActive: n.IsActive,
	}
	creds, err := s.selector.Decrypt(n)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Host = creds.Host
	resp.Onion = creds.IsOnion()
	if params := (&node.ConnectURI{Host: creds.Host}).Network(); params != nil {
		resp.Network = params.Name
	}
	return resp
}

func (s *HTTPServer) handleListNodes(c *gin.Context) {
	nodes, err := s.selector.ListNodes()
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	resp := make([]NodeResponse, 0, len(nodes))
	for i := range nodes {
		resp = append(resp, s.nodeResponse(&nodes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) handleAddNode(c *gin.Context) {
	var req AddNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}
	n, err := s.selector.AddNode(req.Label, req.Scheme, req.Host, req.User, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.nodeResponse(n))
}

func (s *HTTPServer) handleImportNode(c *gin.Context) {
	var req ImportNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}
	n, err := s.selector.AddFromURI(req.URI)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.nodeResponse(n))
}

func (s *HTTPServer) handleUpdateNode(c *gin.Context) {
	var req UpdateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}
	id := c.Param("id")
	if err := s.selector.UpdateCredentials(id, req.Label, req.Host, req.User, req.Password); err != nil {
		s.abortWithError(c, err)
		return
	}
	n, err := s.selector.GetNode(id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.nodeResponse(n))
}

func (s *HTTPServer) handleDeleteNode(c *gin.Context) {
	if err := s.selector.Delete(c.Param("id")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) handleActivateNode(c *gin.Context) {
	id := c.Param("id")
	if err := s.selector.Activate(id); err != nil {
		s.abortWithError(c, err)
		return
	}
	n, err := s.selector.GetNode(id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.nodeResponse(n))
}

func (s *HTTPServer) handleNodeStatus(c *gin.Context) {
	resp := NodeStatusResponse{NodeStatus: s.client.Status(c.Request.Context(), s.classifier)}
	if s.tips != nil {
		tip := s.tips.Tip()
		resp.Tip = &TipResponse{
			Height:     tip.Height,
			Hash:       tip.Hash,
			Condition:  s.tips.Condition().String(),
			CatchingUp: s.tips.CatchingUp(),
		}
	}
	c.JSON(http.StatusOK, resp)
}
