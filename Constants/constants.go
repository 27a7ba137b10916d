package Constants

const WhatsappGoService = "http://localhost:3000"

// Default phone country code applied when a number is submitted without one.
const DefaultCountryCode = "+91"
