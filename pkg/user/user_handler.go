package user

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bookli/bookli/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid            string      `json:"uid"`
	Username       string      `json:"username"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Bio            string      `json:"bio,omitempty"`
	AvatarUrl      string      `json:"avatarUrl,omitempty"`
	OrganizationId *int        `json:"organizationId,omitempty"`
	Settings       SettingsDTO `json:"settings"`
}

type SettingsDTO struct {
	Timezone      string `json:"timezone"`
	WeekStartDay  string `json:"weekStartDay"`
	DayStart      int    `json:"dayStartMinutes"`
	DayEnd        int    `json:"dayEndMinutes"`
	BufferMinutes int    `json:"bufferMinutes"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CurrentUser returns the profile of the authenticated user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Getting current user")

	currentUser, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userToDTO(&currentUser)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateProfile updates the authenticated user's profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Updating user profile")

	var userDTO UserDTO
	if err := json.NewDecoder(r.Body).Decode(&userDTO); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	log.Debug("Updating user: ", userDTO.Username)
	updatedUser, err := h.userService.UpdateProfile(r.Context(), dtoToUser(userDTO))
	if err != nil {
		if errors.Is(err, ErrUserDataInvalid) {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Invalid profile data",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userToDTO(&updatedUser)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// IsUsernameAvailable checks whether a username can still be registered.
func (h *Handler) IsUsernameAvailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	username := vars["username"]
	if len(username) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Username is required",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	isAvailable, err := h.userService.IsUsernameAvailable(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]bool{"available": isAvailable}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UploadAvatar stores a profile image for the current user (max 3MB).
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Uploading user avatar")

	r.Body = http.MaxBytesReader(w, r.Body, 3<<20)
	err := r.ParseMultipartForm(3 << 20)
	if err != nil {
		log.Debugf("File is too large: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Image is too large",
			Details: "Maximum size is 3MB. Please try again with a smaller image.",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	log.Debugf("Uploaded file: %s (%d bytes)", header.Filename, header.Size)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.userService.StoreAvatar(r.Context(), fileBytes); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetAvatar serves a user's profile image. Without a userUid path
// variable it serves the current user's image.
func (h *Handler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/jpeg")

	vars := mux.Vars(r)
	userUid := vars["userUid"]

	var userId int
	if userUid != "" {
		u, err := h.userService.GetUserByUid(r.Context(), userUid)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		userId = u.Id
	} else {
		u, err := h.userService.GetCurrentUser(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		userId = u.Id
	}

	avatar, err := h.userService.GetAvatar(r.Context(), userId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(avatar); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DeleteAvatar removes the current user's profile image.
func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.userService.DeleteAvatar(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userToDTO(u *User) UserDTO {
	return UserDTO{
		Uid:            u.Uid,
		Username:       u.Username,
		Name:           u.Name,
		Email:          u.Email,
		Bio:            u.Bio,
		AvatarUrl:      u.AvatarUrl,
		OrganizationId: u.OrganizationId,
		Settings: SettingsDTO{
			Timezone:      u.Settings.Timezone,
			WeekStartDay:  strings.ToLower(u.Settings.WeekStart.String()),
			DayStart:      u.Settings.DayStart,
			DayEnd:        u.Settings.DayEnd,
			BufferMinutes: u.Settings.BufferMinutes,
		},
	}
}

func dtoToUser(dto UserDTO) User {
	return User{
		Uid:       dto.Uid,
		Username:  dto.Username,
		Name:      dto.Name,
		Email:     dto.Email,
		Bio:       dto.Bio,
		AvatarUrl: dto.AvatarUrl,
		Settings: Settings{
			Timezone:      dto.Settings.Timezone,
			WeekStart:     stringToWeekday(dto.Settings.WeekStartDay),
			DayStart:      dto.Settings.DayStart,
			DayEnd:        dto.Settings.DayEnd,
			BufferMinutes: dto.Settings.BufferMinutes,
		},
	}
}

func stringToWeekday(day string) time.Weekday {
	switch day {
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	case "sunday":
		return time.Sunday
	}
	return time.Monday
}
