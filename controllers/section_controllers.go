package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservations/services"
	"github.com/yeremiapane/table-reservations/utils"
)

type SectionController struct {
	Sections *services.SectionService
}

func NewSectionController(sections *services.SectionService) *SectionController {
	return &SectionController{Sections: sections}
}

func (sc *SectionController) GetSections(c *gin.Context) {
	list, err := sc.Sections.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of sections", list)
}

func (sc *SectionController) CreateSection(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		DisplayOrder int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	section, err := sc.Sections.Create(c.Request.Context(), req.Name, req.DisplayOrder)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Section created successfully", section)
}

func (sc *SectionController) RenameSection(c *gin.Context) {
	id, err := utils.ParamUint(c, "section_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	section, err := sc.Sections.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Section updated", section)
}

func (sc *SectionController) DeleteSection(c *gin.Context) {
	id, err := utils.ParamUint(c, "section_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := sc.Sections.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Section deleted", gin.H{"id": id})
}

// AssignTables -> PUT /sections/:section_id/tables {"tables": [1,2,3]}
func (sc *SectionController) AssignTables(c *gin.Context) {
	id, err := utils.ParamUint(c, "section_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Tables []int `json:"tables"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := sc.Sections.AssignTables(c.Request.Context(), id, req.Tables); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Section tables updated", gin.H{"id": id, "tables": req.Tables})
}
