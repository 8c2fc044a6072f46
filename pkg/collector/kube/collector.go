// Copyright (c) 2025, The Skopos Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kube drives status collection for Kubernetes-backed partitions.
// Nodes and pods are listed through the API server and mapped onto the
// same per-node record and partition aggregates the batch schedulers use:
// allocatable capacity as totals, summed container requests as usage,
// active pods as jobs. Logins, filesystems and reservations have no
// Kubernetes equivalent and carry their defaults.
package kube

import (
	"context"
	"math"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/hpc-stack/skopos/pkg/collector"
	"github.com/hpc-stack/skopos/pkg/config"
	"github.com/hpc-stack/skopos/pkg/stats"
)

// gpuResource is the extended resource name GPU device plugins register.
const gpuResource = corev1.ResourceName("nvidia.com/gpu")

func init() {
	collector.MustRegister(config.TypeKube, func(sys config.System) (collector.Collector, error) {
		client, err := buildClient(sys.Kubeconfig)
		if err != nil {
			return nil, err
		}
		return New(sys, client), nil
	})
}

// Collector is the Kubernetes system driver.
type Collector struct {
	sys     config.System
	client  kubernetes.Interface
	timeout time.Duration
}

// New returns a driver for one configured Kubernetes system.
func New(sys config.System, client kubernetes.Interface) *Collector {
	return &Collector{
		sys:     sys,
		client:  client,
		timeout: sys.ExecTimeout.Duration(),
	}
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	return c.sys.Name
}

// Collect implements collector.Collector. Node and job categories are
// derived from one shared node+pod listing so both see the same cluster
// state; each still fails independently under its guard.
func (c *Collector) Collect(ctx context.Context) *stats.Snapshot {
	snap := &stats.Snapshot{System: c.sys.Name}

	snap.Nodes = collector.Guard(c.sys.Name, stats.CategoryNodes,
		func() (stats.NodeStats, error) { return c.collectNodes(ctx) },
		func() stats.NodeStats { return stats.DefaultNodeStats(c.sys.PartitionNames()) })

	snap.Jobs = collector.Guard(c.sys.Name, stats.CategoryJobs,
		func() (stats.JobStats, error) { return c.collectJobs(ctx) },
		func() stats.JobStats { return stats.DefaultJobStats(nil) })

	snap.Logins = stats.DefaultLoginStats(c.sys.LoginNodes)
	snap.Filesystems = stats.DefaultFilesystemStats()
	snap.Reservations = stats.DefaultReservationStats()

	return snap
}

func (c *Collector) collectNodes(ctx context.Context) (stats.NodeStats, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	nodes, err := c.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return stats.NodeStats{}, err
	}
	pods, err := c.activePods(ctx)
	if err != nil {
		return stats.NodeStats{}, err
	}

	byNode := make(map[string][]corev1.Pod)
	for _, pod := range pods {
		byNode[pod.Spec.NodeName] = append(byNode[pod.Spec.NodeName], pod)
	}

	records := make([]stats.NodeRecord, 0, len(nodes.Items))
	for i := range nodes.Items {
		records = append(records, nodeRecord(&nodes.Items[i], byNode[nodes.Items[i].Name]))
	}
	return collector.AggregateNodes(&c.sys, records), nil
}

func (c *Collector) collectJobs(ctx context.Context) (stats.JobStats, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pods, err := c.activePods(ctx)
	if err != nil {
		return stats.JobStats{}, err
	}

	js := stats.DefaultJobStats(nil)
	namespaces := make(map[string]struct{})
	for _, pod := range pods {
		switch pod.Status.Phase {
		case corev1.PodRunning:
			js.Running++
		case corev1.PodPending:
			js.Pending++
		default:
			continue
		}
		namespaces[pod.Namespace] = struct{}{}
	}
	// Namespaces stand in for users: one tenant, one namespace.
	js.ActiveUsers = len(namespaces)
	return js, nil
}

// activePods lists pods across all namespaces, dropping terminal phases.
func (c *Collector) activePods(ctx context.Context) ([]corev1.Pod, error) {
	list, err := c.client.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	pods := make([]corev1.Pod, 0, len(list.Items))
	for _, pod := range list.Items {
		if pod.Status.Phase == corev1.PodSucceeded || pod.Status.Phase == corev1.PodFailed {
			continue
		}
		pods = append(pods, pod)
	}
	return pods, nil
}

// nodeRecord maps one node plus its active pods onto the shared node
// record. Totals come from allocatable capacity, usage from summed
// container requests. A node that is not ready is down; a cordoned node
// is reserved; otherwise pod presence decides free vs busy.
func nodeRecord(node *corev1.Node, pods []corev1.Pod) stats.NodeRecord {
	alloc := node.Status.Allocatable
	cpuTotal := int(alloc.Cpu().Value())
	memTotalGB := stats.Round2(float64(alloc.Memory().Value()) / (1 << 30))
	gpuQty := alloc[gpuResource]
	gpuTotal := int(gpuQty.Value())

	var cpuReqMilli, memReqBytes, gpuReq int64
	running := 0
	for i := range pods {
		if pods[i].Status.Phase == corev1.PodRunning {
			running++
		}
		for _, ctr := range pods[i].Spec.Containers {
			req := ctr.Resources.Requests
			cpuReqMilli += req.Cpu().MilliValue()
			memReqBytes += req.Memory().Value()
			g := req[gpuResource]
			gpuReq += g.Value()
		}
	}

	cpuFree := cpuTotal - int(math.Ceil(float64(cpuReqMilli)/1000))
	if cpuFree < 0 {
		cpuFree = 0
	}
	memFreeGB := stats.Round2(memTotalGB - float64(memReqBytes)/(1<<30))
	if memFreeGB < 0 {
		memFreeGB = 0
	}
	gpuFree := gpuTotal - int(gpuReq)
	if gpuFree < 0 {
		gpuFree = 0
	}

	state := stats.NodeStateFree
	switch {
	case !nodeReady(node):
		state = "down"
	case node.Spec.Unschedulable:
		state = stats.NodeStateReserved
	case len(pods) > 0:
		state = stats.NodeStateBusy
	}

	return stats.NodeRecord{
		Name:          node.Name,
		State:         state,
		JobsTotal:     len(pods),
		JobsRunning:   running,
		MemoryFreeGB:  memFreeGB,
		MemoryTotalGB: memTotalGB,
		CPUsFree:      cpuFree,
		CPUsTotal:     cpuTotal,
		GPUsFree:      gpuFree,
		GPUsTotal:     gpuTotal,
	}
}

func nodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
