package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ApiResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

func sendBadRequestResponse(w http.ResponseWriter, route, message string) {
	sendErrorWithCodeResponse(w, route, message, http.StatusBadRequest)
}

func sendNotFoundResponse(w http.ResponseWriter, route, message string) {
	sendErrorWithCodeResponse(w, route, message, http.StatusNotFound)
}

func sendServerErrorResponse(w http.ResponseWriter, route, message string) {
	sendErrorWithCodeResponse(w, route, message, http.StatusInternalServerError)
}

func sendErrorWithCodeResponse(w http.ResponseWriter, route, message string, errorcode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorcode)
	response := &ApiResponse{
		Status: "ERROR: " + message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logrus.Errorf("error serializing json error for API %v route: %v", route, err)
	}
}

func sendOKResponse(w http.ResponseWriter, route string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	response := &ApiResponse{
		Status: "OK",
		Data:   data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logrus.Errorf("error serializing json data for API %v route: %v", route, err)
	}
}
