// FoodAI - Restaurant Reservation Analytics and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodai

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/foodai/internal/logging"
	"github.com/tomtom215/foodai/internal/models"
	"github.com/tomtom215/foodai/internal/storage"
)

// Reschedule business rules.
const (
	maxAdvanceDays      = 90
	minRescheduleNotice = 24 * time.Hour
	openingHour         = 12
	closingHour         = 22
	maxSlotReservations = 5
)

// RescheduleReservation moves an existing reservation to a new date and
// time, enforcing opening hours, notice period, and slot demand, then
// notifies customer and restaurant by email on a best-effort basis.
func (h *Handler) RescheduleReservation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	now := h.now()

	reservationID := chi.URLParam(r, "id")

	var req models.RescheduleRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	newDate, err := validateRescheduleDate(req.ReservationDate, now)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}
	newTime, err := validateRescheduleTime(req.ReservationTime)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	reservation, err := h.store.FetchReservation(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Reservación no encontrada", nil)
			return
		}
		respondError(w, http.StatusBadGateway, codeUpstream, "Storage collaborator failed", err)
		return
	}

	if reservation.Status == "cancelled" || reservation.Status == "completed" {
		respondError(w, http.StatusBadRequest, codeValidation,
			fmt.Sprintf("No se puede modificar una reservación %s", reservation.Status), nil)
		return
	}

	originalDatetime, ok := parseStoredDatetime(reservation.ReservationDate, reservation.ReservationTime)
	if !ok {
		respondError(w, http.StatusInternalServerError, codeInternal,
			"Reservation carries an unparsable date/time", nil)
		return
	}

	if originalDatetime.Sub(now) < minRescheduleNotice {
		respondError(w, http.StatusBadRequest, codeValidation,
			"No se pueden modificar reservaciones con menos de 24 horas de anticipación", nil)
		return
	}

	newDatetime := time.Date(newDate.Year(), newDate.Month(), newDate.Day(),
		newTime.Hour(), newTime.Minute(), 0, 0, time.UTC)
	if newDatetime.Equal(originalDatetime) {
		respondError(w, http.StatusBadRequest, codeValidation,
			"La nueva fecha y hora son iguales a las actuales", nil)
		return
	}

	storedTime := newTime.Format("15:04:05")
	conflicts, err := h.store.CountReservations(r.Context(), storage.ConflictFilter{
		RestaurantID:    reservation.RestaurantID,
		ReservationDate: req.ReservationDate,
		ReservationTime: storedTime,
		Statuses:        []string{"confirmed"},
		ExcludeID:       reservationID,
	})
	if err != nil {
		respondError(w, http.StatusBadGateway, codeUpstream, "Storage collaborator failed", err)
		return
	}
	if conflicts >= maxSlotReservations {
		respondError(w, http.StatusConflict, codeConflict,
			"Este horario tiene alta demanda. Por favor seleccione otro horario", nil)
		return
	}

	update := map[string]interface{}{
		"reservation_date":    req.ReservationDate,
		"reservation_time":    storedTime,
		"updated_at":          now.Format(time.RFC3339),
		"modification_reason": req.Reason,
		"last_modified_date":  reservation.ReservationDate,
		"last_modified_time":  reservation.ReservationTime,
	}
	if err := h.store.UpdateReservation(r.Context(), reservationID, update); err != nil {
		respondError(w, http.StatusBadGateway, codeUpstream, "Error al actualizar la reservación", err)
		return
	}

	emailsSent := h.sendRescheduleNotifications(r.Context(), reservation, &req, storedTime)

	respondSuccess(w, http.StatusOK, models.RescheduleResult{
		Success:       true,
		Message:       "Reservación actualizada exitosamente",
		ReservationID: reservationID,
		OldDatetime: models.ReservationMoment{
			Date: reservation.ReservationDate,
			Time: clipToMinutes(reservation.ReservationTime),
		},
		NewDatetime: models.ReservationMoment{
			Date: req.ReservationDate,
			Time: clipToMinutes(storedTime),
		},
		EmailsSent: emailsSent,
	}, start)
}

// CheckAvailability pre-checks a target slot before a reschedule.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	reservationID := chi.URLParam(r, "id")
	date := r.URL.Query().Get("date")
	slot := r.URL.Query().Get("time")
	if date == "" || slot == "" {
		respondError(w, http.StatusBadRequest, codeValidation,
			"date and time query parameters are required", nil)
		return
	}

	reservation, err := h.store.FetchReservation(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Reservación no encontrada", nil)
			return
		}
		respondError(w, http.StatusBadGateway, codeUpstream, "Storage collaborator failed", err)
		return
	}

	conflicts, err := h.store.CountReservations(r.Context(), storage.ConflictFilter{
		RestaurantID:    reservation.RestaurantID,
		ReservationDate: date,
		ReservationTime: slot + ":00",
		Statuses:        []string{"confirmed", "pending"},
		ExcludeID:       reservationID,
	})
	if err != nil {
		respondError(w, http.StatusBadGateway, codeUpstream, "Storage collaborator failed", err)
		return
	}

	available := conflicts < maxSlotReservations
	message := "Horario disponible"
	if !available {
		message = "Este horario tiene alta demanda"
	}

	respondSuccess(w, http.StatusOK, models.AvailabilityResult{
		Available:            available,
		Date:                 date,
		Time:                 slot,
		ExistingReservations: conflicts,
		Message:              message,
	}, start)
}

func validateRescheduleDate(value string, now time.Time) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.New("Formato de fecha inválido. Use YYYY-MM-DD")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, errors.New("No se pueden hacer reservaciones en fechas pasadas")
	}
	if date.After(today.AddDate(0, 0, maxAdvanceDays)) {
		return time.Time{}, errors.New("No se pueden hacer reservaciones con más de 90 días de anticipación")
	}
	return date, nil
}

func validateRescheduleTime(value string) (time.Time, error) {
	slot, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, errors.New("Formato de hora inválido. Use HH:MM (24 horas)")
	}

	if slot.Hour() < openingHour || slot.Hour() >= closingHour {
		return time.Time{}, errors.New("El horario de reservación debe ser entre 12:00 PM y 10:00 PM")
	}
	if slot.Minute() != 0 && slot.Minute() != 30 {
		return time.Time{}, errors.New("Las reservaciones solo están disponibles en intervalos de 30 minutos (:00 o :30)")
	}
	return slot, nil
}

func parseStoredDatetime(date, clock string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if ts, err := time.Parse(layout, date+" "+clock); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// clipToMinutes trims a stored HH:MM:SS value to HH:MM.
func clipToMinutes(clock string) string {
	if len(clock) > 5 {
		return clock[:5]
	}
	return clock
}

// sendRescheduleNotifications emails the customer and the restaurant.
// Failures are logged, never surfaced; the reschedule already succeeded.
func (h *Handler) sendRescheduleNotifications(
	ctx context.Context,
	reservation *models.RawReservation,
	req *models.RescheduleRequest,
	storedTime string,
) models.EmailsSent {
	customerEmail, _ := reservation.FirstString([]string{"customer_email"})
	customerName, ok := reservation.FirstString([]string{"customer_name"})
	if !ok {
		customerName = "Cliente"
	}

	restaurantName := "Restaurante"
	restaurantEmail := ""
	if restaurant, err := h.store.FetchRestaurant(ctx, reservation.RestaurantID); err == nil {
		if restaurant.Name != "" {
			restaurantName = restaurant.Name
		}
		restaurantEmail, _ = restaurant.FirstString([]string{"email", "contact_email"})
	}

	guests, _ := reservation.FirstString([]string{"guests_count"})
	if guests == "" {
		guests = "N/A"
	}

	sent := models.EmailsSent{
		Customer:   customerEmail != "",
		Restaurant: restaurantEmail != "",
	}

	if customerEmail != "" {
		email := models.EmailRequest{
			To:      customerEmail,
			Subject: fmt.Sprintf("Cambio de fecha/hora - Reservación en %s", restaurantName),
			HTML: customerRescheduleBody(customerName, restaurantName, guests,
				req.ReservationDate, clipToMinutes(storedTime),
				reservation.ReservationDate, clipToMinutes(reservation.ReservationTime),
				req.Reason),
		}
		if _, err := h.mailer.Send(ctx, email); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to email customer about reschedule")
		}
	}

	if restaurantEmail != "" {
		email := models.EmailRequest{
			To:      restaurantEmail,
			Subject: fmt.Sprintf("Modificación de reservación - %s", customerName),
			HTML: restaurantRescheduleBody(customerName, guests, reservation.ID,
				req.ReservationDate, clipToMinutes(storedTime),
				reservation.ReservationDate, clipToMinutes(reservation.ReservationTime),
				req.Reason),
		}
		if _, err := h.mailer.Send(ctx, email); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to email restaurant about reschedule")
		}
	}

	return sent
}

func customerRescheduleBody(customerName, restaurantName, guests, newDate, newTime, oldDate, oldTime, reason string) string {
	reasonBlock := ""
	if reason != "" {
		reasonBlock = fmt.Sprintf("<p><strong>Motivo del cambio:</strong> %s</p>", reason)
	}
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #2c3e50;">Tu reservación ha sido modificada</h2>
  <p>Hola %s,</p>
  <p>Te confirmamos que tu reservación ha sido actualizada exitosamente.</p>
  <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px;">
    <h3 style="color: #28a745;">Nueva fecha y hora:</h3>
    <ul>
      <li><strong>Fecha:</strong> %s</li>
      <li><strong>Hora:</strong> %s</li>
      <li><strong>Restaurante:</strong> %s</li>
      <li><strong>Personas:</strong> %s</li>
    </ul>
  </div>
  <div style="background-color: #fff3cd; padding: 15px; border-radius: 5px;">
    <h4 style="color: #856404;">Fecha y hora anterior:</h4>
    <ul>
      <li><strong>Fecha:</strong> %s</li>
      <li><strong>Hora:</strong> %s</li>
    </ul>
  </div>
  %s
  <p style="color: #6c757d; font-size: 14px;">
    Si necesitas hacer cambios adicionales, hazlo con al menos 24 horas de anticipación.
    Para cancelar tu reservación, contacta al restaurante directamente.
  </p>
  <hr style="border: none; border-top: 1px solid #e0e0e0;">
  <p style="color: #999; font-size: 12px;">
    Este es un correo automático de FoodAI. Por favor no respondas a este mensaje.
  </p>
</body>
</html>`, customerName, newDate, newTime, restaurantName, guests, oldDate, oldTime, reasonBlock)
}

func restaurantRescheduleBody(customerName, guests, reservationID, newDate, newTime, oldDate, oldTime, reason string) string {
	reasonBlock := ""
	if reason != "" {
		reasonBlock = fmt.Sprintf("<p><strong>Motivo:</strong> %s</p>", reason)
	}
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Notificación de cambio en reservación</h2>
  <p>Una reservación ha sido modificada en su restaurante.</p>
  <h3>Detalles del cambio:</h3>
  <table style="border-collapse: collapse; width: 100%%;">
    <tr><td><strong>Cliente:</strong></td><td>%s</td></tr>
    <tr><td><strong>Nueva fecha:</strong></td><td>%s</td></tr>
    <tr><td><strong>Nueva hora:</strong></td><td>%s</td></tr>
    <tr><td><strong>Personas:</strong></td><td>%s</td></tr>
    <tr><td><strong>Fecha anterior:</strong></td><td>%s</td></tr>
    <tr><td><strong>Hora anterior:</strong></td><td>%s</td></tr>
  </table>
  %s
  <p style="color: #666; font-size: 14px;">ID de reservación: %s</p>
</body>
</html>`, customerName, newDate, newTime, guests, oldDate, oldTime, reasonBlock, reservationID)
}
