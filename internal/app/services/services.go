package services

// Services defined in this package:
// - AuthService: Handles registration, login and token issuance
// - UserService: Handles user profiles and account deactivation
// - MaterialService: Handles the material catalog
// - TradeService: Handles the trade lifecycle (request, complete, cancel)
// - ChatService: Handles the two-party chat directory
// - MessageService: Handles chat messages and read state
// - NotificationService: Handles stored and pushed notifications
// - ReportService: Handles abuse reports
// - RecommendationService: Handles material recommendations
