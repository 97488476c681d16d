// Command medallion manages a Steam account's game library and achievement
// progress from the terminal: reloading the owned-game list, scanning
// achievement counts, unlocking through the companion process, and
// inspecting the shared status database.
package main
