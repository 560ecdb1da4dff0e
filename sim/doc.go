// Package sim provides the core antibiotic PK/PD simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - pk.go: personalized one-compartment pharmacokinetics (dose schedule → concentration)
//   - population.go: sensitive/resistant bacterial dynamics (growth, Hill kill, mutation flux)
//   - simulator.go: the integration loop tying the two together into a Trajectory
//
// # Architecture
//
// The sim package holds the deterministic engine; supporting layers live in
// sub-packages:
//   - sim/cohort/: patient-cohort specification (YAML) and seeded generation
//   - sim/batch/: concurrent batch execution, summary statistics, regimen search
//
// A single simulation run is a pure function of its inputs: PatientProfile and
// DrugProperties are immutable value types, the dose schedule is validated up
// front, and all randomness (compliance modeling, the stochastic population
// variant, cohort sampling) flows through explicitly seeded generators. Two
// runs with identical inputs produce bit-for-bit identical trajectories.
//
// # Error taxonomy
//
// Construction-time contract violations surface as *ConfigurationError,
// call-time parameter problems as *InvalidParameterError, and NaN/Inf during
// integration as *NumericalAnomalyError carrying the partial trajectory's
// last valid step. See errors.go.
package sim
