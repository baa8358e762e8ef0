// Package domain contains the core lesson entities: slides and their
// templates, quiz and assessment questions, and learner interactions.
// It is independent of storage and transport. The quiz progression
// state machine and the physics formulas live in the quiz and physics
// subpackages.
package domain
