// Package domain holds the client-side shapes of the records served by the
// fitness backend: users, groups, workouts, trainers and contracts.
//
// Relations the server may or may not populate are typed as Ref[T]; code
// reading them goes through Ref.ID and Ref.Value only.
package domain
