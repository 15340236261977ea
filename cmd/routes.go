package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/sign_out", authMiddleware.ThenFunc(app.userHandler.SignOut))
	mux.Get("/user/me", authMiddleware.ThenFunc(app.userHandler.Me))
	mux.Put("/user/me", authMiddleware.ThenFunc(app.userHandler.UpdateUser))
	mux.Post("/user/fcm_token", authMiddleware.ThenFunc(app.userHandler.UpdateFCMToken))
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))
	mux.Get("/user", adminAuthMiddleware.ThenFunc(app.userHandler.GetUsers))

	// Cars
	mux.Post("/car", authMiddleware.ThenFunc(app.carHandler.CreateCar))
	mux.Post("/car/search", standardMiddleware.ThenFunc(app.carHandler.SearchCars))
	mux.Get("/car/mine", authMiddleware.ThenFunc(app.carHandler.MyCars))
	mux.Get("/car/:id", standardMiddleware.ThenFunc(app.carHandler.GetCarByID))
	mux.Put("/car/:id", authMiddleware.ThenFunc(app.carHandler.UpdateCar))
	mux.Del("/car/:id", authMiddleware.ThenFunc(app.carHandler.DeleteCar))
	mux.Get("/car/:id/availability", standardMiddleware.ThenFunc(app.bookingHandler.CarAvailability))
	mux.Get("/car/:id/reviews", standardMiddleware.ThenFunc(app.reviewHandler.ReviewsForCar))

	// Bookings
	mux.Post("/booking", authMiddleware.ThenFunc(app.bookingHandler.CreateBooking))
	mux.Get("/booking/mine", authMiddleware.ThenFunc(app.bookingHandler.MyBookings))
	mux.Get("/booking/owner", authMiddleware.ThenFunc(app.bookingHandler.OwnerBookings))
	mux.Get("/booking/:id", authMiddleware.ThenFunc(app.bookingHandler.GetBooking))
	mux.Post("/booking/:id/transition", authMiddleware.ThenFunc(app.bookingHandler.TransitionBooking))

	// Reviews
	mux.Post("/review", authMiddleware.ThenFunc(app.reviewHandler.CreateReview))

	// Notifications
	mux.Get("/notification", authMiddleware.ThenFunc(app.notificationHandler.ListNotifications))
	mux.Get("/notification/unread", authMiddleware.ThenFunc(app.notificationHandler.UnreadCount))
	mux.Put("/notification/:id/read", authMiddleware.ThenFunc(app.notificationHandler.MarkRead))

	// Chats and messages
	mux.Get("/chat", authMiddleware.ThenFunc(app.chatHandler.GetChatsForUser))
	mux.Get("/chat/:id", authMiddleware.ThenFunc(app.chatHandler.GetChatByID))
	mux.Del("/chat/:id", authMiddleware.ThenFunc(app.chatHandler.DeleteChat))
	mux.Get("/chat/:id/messages", authMiddleware.ThenFunc(app.messageHandler.GetMessagesForChat))
	mux.Post("/message", authMiddleware.ThenFunc(app.messageHandler.SendMessage))
	mux.Del("/message/:id", authMiddleware.ThenFunc(app.messageHandler.DeleteMessage))
	mux.Get("/ws", http.HandlerFunc(app.WebSocketHandler))

	// Admin moderation
	mux.Get("/admin/cars/pending", adminAuthMiddleware.ThenFunc(app.carHandler.PendingCars))
	mux.Post("/admin/cars/:id/moderate", adminAuthMiddleware.ThenFunc(app.carHandler.ModerateCar))
	mux.Del("/admin/reviews/:id", adminAuthMiddleware.ThenFunc(app.reviewHandler.DeleteReview))

	return mux
}
