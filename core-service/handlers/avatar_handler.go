package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffhub-backend/core-service/services"
	"staffhub-backend/shared/database"
	"staffhub-backend/shared/database/models"
	"staffhub-backend/shared/database/models/notification"
)

// AvatarHandler serves profile picture upload and retrieval
type AvatarHandler struct {
	avatars *services.AvatarService
}

func NewAvatarHandler(avatars *services.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

func canManageAvatar(ctx *gin.Context, targetID uuid.UUID) bool {
	userID := ctx.MustGet("userID").(uuid.UUID)
	if userID == targetID {
		return true
	}
	return isReviewerRole(ctx.GetString("userRole"))
}

// UploadAvatar uploads a profile picture for a user
// @Summary Upload avatar
// @Description Upload a profile picture. Users can change their own avatar, admin and hr can change anyone's.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "User ID"
// @Param avatar formData file true "Avatar image"
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users/{id}/avatar [post]
func (h *AvatarHandler) UploadAvatar(ctx *gin.Context) {
	targetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if !canManageAvatar(ctx, targetID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot change another user's avatar"})
		return
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ?", targetID).First(&profile).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}

	if err := h.avatars.ValidateUpload(fileHeader.Filename, fileHeader.Size); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	if _, err := h.avatars.UploadAvatar(ctx.Request.Context(), targetID, fileHeader.Filename, file, fileHeader.Size); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store avatar"})
		return
	}

	avatarURL := "/api/users/" + targetID.String() + "/avatar"
	if err := db.Model(&profile).Update("avatar_url", avatarURL).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	notifier().PublishChange(notification.EntityProfiles, "UPDATE", &targetID, &targetID)

	ctx.JSON(http.StatusOK, gin.H{"avatar_url": avatarURL})
}

// GetAvatar streams a user's profile picture
// @Summary Get avatar
// @Tags users
// @Produce image/jpeg
// @Param id path string true "User ID"
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /users/{id}/avatar [get]
func (h *AvatarHandler) GetAvatar(ctx *gin.Context) {
	targetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Select("avatar_url").Where("id = ?", targetID).First(&profile).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if profile.AvatarURL == "" {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User has no avatar"})
		return
	}

	// Object extension is unknown here, probe the stored keys
	var object io.ReadCloser
	var contentType string
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
		key := "avatars/" + targetID.String() + ext
		obj, err := h.avatars.GetAvatar(ctx.Request.Context(), key)
		if err != nil {
			continue
		}
		// GetObject is lazy, a short read confirms existence
		buf := make([]byte, 1)
		if _, err := obj.Read(buf); err != nil {
			obj.Close()
			continue
		}
		object = readerWithPrefix(buf, obj)
		contentType = avatarContentTypeForExt(ext)
		break
	}
	if object == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Avatar not found"})
		return
	}
	defer object.Close()

	ctx.Header("Content-Type", contentType)
	ctx.Status(http.StatusOK)
	if _, err := io.Copy(ctx.Writer, object); err != nil {
		return
	}
}

// DeleteAvatar removes a user's profile picture
// @Summary Delete avatar
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} map[string]string
// @Router /users/{id}/avatar [delete]
func (h *AvatarHandler) DeleteAvatar(ctx *gin.Context) {
	targetID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if !canManageAvatar(ctx, targetID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete another user's avatar"})
		return
	}

	if err := h.avatars.DeleteAvatar(ctx.Request.Context(), targetID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete avatar"})
		return
	}

	db := database.GetDB()
	if err := db.Model(&models.Profile{}).Where("id = ?", targetID).
		Update("avatar_url", "").Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	notifier().PublishChange(notification.EntityProfiles, "UPDATE", &targetID, &targetID)

	ctx.Status(http.StatusNoContent)
}

func avatarContentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// readerWithPrefix re-attaches bytes consumed while probing the object.
type prefixedReader struct {
	prefix []byte
	rc     io.ReadCloser
}

func readerWithPrefix(prefix []byte, rc io.ReadCloser) io.ReadCloser {
	return &prefixedReader{prefix: prefix, rc: rc}
}

func (p *prefixedReader) Read(buf []byte) (int, error) {
	if len(p.prefix) > 0 {
		n := copy(buf, p.prefix)
		p.prefix = p.prefix[n:]
		return n, nil
	}
	return p.rc.Read(buf)
}

func (p *prefixedReader) Close() error {
	return p.rc.Close()
}
