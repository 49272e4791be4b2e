// Package agui exposes recommendations over the AG-UI protocol.
//
// AG-UI (Agent-User Interface) is an event-based protocol for streaming
// agent progress to user-facing applications. A recommendation run is one
// interaction flow driven from a single request:
//
//	RUN_STARTED
//	STEP_STARTED   loading
//	STATE_SNAPSHOT {step: "results", preferences, result}
//	STEP_FINISHED  loading
//	RUN_FINISHED
//
// A draft with nothing submittable yields RUN_STARTED then RUN_ERROR with
// the validation message. A failed oracle call closes the loading step and
// ends with RUN_ERROR carrying the generic retry message.
//
// [Handler] serves the stream as Server-Sent Events:
//
//	http.Handle("/api/recommend", agui.NewHandler(recommender))
package agui
