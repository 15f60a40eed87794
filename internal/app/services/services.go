package services

// Services defined in this package:
// - AuthService: registration, login, profile and password reset
// - BootcampService: bootcamp CRUD, radius search and photo upload
// - CourseService: course CRUD under a bootcamp
// - UserService: admin user management
//
// Listing endpoints are served by the advanced results middleware and do not go through a service.
